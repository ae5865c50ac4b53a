package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept when a session starts
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingEngine      = "Starting Critterfield economy engine"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgEnvWarning          = "Environment warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Store and Economy
// =============================================================================

const (
	PoolMaxConnections = 10
	PoolMaxConnIdle    = 30 * time.Minute
	PoolMaxConnLife    = time.Hour
)

const (
	LogMsgStoreOpened       = "Store opened"
	LogMsgEconomyLoaded     = "Economy configuration loaded"
	LogMsgTierLoaded        = "Rarity tier"
	ErrMsgFailedOpenStore   = "failed to open store"
	ErrMsgFailedMigrate     = "failed to migrate store"
	ErrMsgFailedLoadEconomy = "failed to load economy config"
	ErrMsgFailedBuildTable  = "failed to build rarity table"
	ErrMsgUnsupportedDriver = "unsupported store driver"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedSubscribeEventLogger = "failed to subscribe event logger"
)

// =============================================================================
// Sweeps
// =============================================================================

const (
	// AuditCleanupInterval is how often expired audit segments are pruned
	AuditCleanupInterval = time.Hour

	LogMsgSweepsRegistered    = "Sweeps registered"
	ErrMsgFailedRegisterSweep = "failed to register sweep"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownScheduler      = "Stopping sweep scheduler..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgSchedulerStopFailed        = "Scheduler did not stop in time"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgEventLogCloseFailed        = "Audit log close failed"
	LogMsgClosingStore               = "Closing store..."
)
