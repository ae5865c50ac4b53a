package scheduler

// Log messages
const (
	LogMsgSchedulerStarted  = "Sweep scheduler started"
	LogMsgSchedulerStopping = "Sweep scheduler stopping"
	LogMsgSchedulerStopped  = "Sweep scheduler stopped"
	LogMsgShutdownTimeout   = "Sweep scheduler shutdown timeout"
	LogMsgSweepCompleted    = "Sweep completed"
	LogMsgSweepFailed       = "Sweep failed"
)

// Trigger sources
const (
	TriggerTick   = "tick"
	TriggerManual = "manual"
)
