package worker

// LogMsgWorkerJobFailed is logged when one unit of a fan-out fails
const LogMsgWorkerJobFailed = "Worker job failed"

// LogMsgWorkerJobPanicked is logged when one unit of a fan-out panics
const LogMsgWorkerJobPanicked = "Worker job panicked"

// DefaultParallelism is used when a caller passes a non-positive limit
const DefaultParallelism = 4
