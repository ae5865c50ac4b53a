package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Sweep Metrics
var (
	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSweepRuns,
			Help: HelpTextSweepRuns,
		},
		[]string{LabelSweep, LabelTrigger, LabelOutcome},
	)

	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: SweepDurationBuckets,
		},
		[]string{LabelSweep},
	)

	SweepUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSweepUnits,
			Help: HelpTextSweepUnits,
		},
		[]string{LabelSweep, LabelResult},
	)

	SweepLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameSweepLastRun,
			Help: HelpTextSweepLastRun,
		},
		[]string{LabelSweep},
	)
)

// Economy Metrics
var (
	CreaturesSpawned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCreaturesSpawned,
			Help: HelpTextCreaturesSpawned,
		},
		[]string{LabelRarity},
	)

	CreaturesCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCreaturesCollected,
			Help: HelpTextCreaturesCollected,
		},
		[]string{LabelRarity},
	)

	CreaturesDespawned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreaturesDespawned,
			Help: HelpTextCreaturesDespawned,
		},
	)

	CreaturesMatured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCreaturesMatured,
			Help: HelpTextCreaturesMatured,
		},
		[]string{LabelRarity},
	)

	CreaturesSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreaturesSold,
			Help: HelpTextCreaturesSold,
		},
	)

	ConsumablesPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConsumablesPlaced,
			Help: HelpTextConsumablesPlaced,
		},
		[]string{LabelRarity},
	)

	Likes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLikes,
			Help: HelpTextLikes,
		},
	)

	IncomeCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameIncomeCredited,
			Help: HelpTextIncomeCredited,
		},
	)

	SalesCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSalesCredited,
			Help: HelpTextSalesCredited,
		},
	)
)
