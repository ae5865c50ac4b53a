package eventlog

// Segment naming
const (
	SegmentPrefix     = "economy"
	SegmentExtension  = ".jsonl.zst"
	SegmentHourLayout = "2006-01-02-15"
	writeBufferSize   = 128 * 1024
)

// Log messages - service events
const (
	LogMsgFailedToLogEvent = "Failed to write event to audit log"
	LogMsgEventLogged      = "Event written to audit log"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting audit log cleanup job"
	LogMsgCleanupJobFailed    = "Audit log cleanup failed"
	LogMsgCleanupJobCompleted = "Audit log cleanup completed"
)

// Log field keys - structured logging fields
const (
	LogFieldType          = "type"
	LogFieldOwnerID       = "owner_id"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retentionDays"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deletedCount"
)
