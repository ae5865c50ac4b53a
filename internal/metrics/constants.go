package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Sweep metric names
const (
	MetricNameSweepRuns     = "sweep_runs_total"
	MetricNameSweepDuration = "sweep_duration_seconds"
	MetricNameSweepUnits    = "sweep_units_total"
	MetricNameSweepLastRun  = "sweep_last_run_timestamp_seconds"
)

// Economy metric names
const (
	MetricNameCreaturesSpawned   = "creatures_spawned_total"
	MetricNameCreaturesCollected = "creatures_collected_total"
	MetricNameCreaturesDespawned = "creatures_despawned_total"
	MetricNameCreaturesMatured   = "creatures_matured_total"
	MetricNameCreaturesSold      = "creatures_sold_total"
	MetricNameConsumablesPlaced  = "consumables_placed_total"
	MetricNameLikes              = "creature_likes_total"
	MetricNameIncomeCredited     = "income_credited_total"
	MetricNameSalesCredited      = "sales_credited_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Sweep metric help text
const (
	HelpTextSweepRuns     = "Total number of sweep runs by outcome"
	HelpTextSweepDuration = "Sweep run duration in seconds"
	HelpTextSweepUnits    = "Units processed by sweeps, by result"
	HelpTextSweepLastRun  = "Unix time of the last completed sweep run"
)

// Economy metric help text
const (
	HelpTextCreaturesSpawned   = "Total number of creatures spawned onto fields"
	HelpTextCreaturesCollected = "Total number of wild creatures collected"
	HelpTextCreaturesDespawned = "Total number of wild creatures despawned"
	HelpTextCreaturesMatured   = "Total number of exhibited creatures that finished their countdown"
	HelpTextCreaturesSold      = "Total number of matured creatures sold"
	HelpTextConsumablesPlaced  = "Total number of consumables placed"
	HelpTextLikes              = "Total number of likes applied"
	HelpTextIncomeCredited     = "Total income credited by the income sweep"
	HelpTextSalesCredited      = "Total balance credited by creature sales"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelSweep   = "sweep"
	LabelTrigger = "trigger"
	LabelOutcome = "outcome"
	LabelResult  = "result"
	LabelRarity  = "rarity"
)

// Sweep outcomes and unit results
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	ResultScanned = "scanned"
	ResultApplied = "applied"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SweepDurationBuckets range from 5ms to 2 minutes
var SweepDurationBuckets = []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgSweepFailed       = "Sweep run failed"
)
