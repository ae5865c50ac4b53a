package config

const (
	// Configuration file paths
	ConfigPathEconomy = "configs/economy.yaml"

	// Embedded schema resource name
	SchemaEconomy = "economy.schema.json"
)

// Store drivers
const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Environment variable defaults
const (
	DefaultPort               = 8080
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultEnvironment        = "dev"
	DefaultDBUser             = "postgres"
	DefaultDBPassword         = "postgres"
	DefaultDBHost             = "localhost"
	DefaultDBPort             = "5432"
	DefaultDBName             = "critterfield"
	DefaultSQLitePath         = "data/critterfield.db"
	DefaultLogDir             = "logs"
	DefaultAuditDir           = "data/audit"
	DefaultAuditRetentionDays = 30
	DefaultServiceName        = "critterfield"
	DefaultVersion            = "dev"
	DefaultShutdownTimeout    = "15s"
	DefaultLikeCacheSize      = 10000
	DefaultLikeCacheTTL       = "1h"
	DefaultDeadLetterPath     = "data/deadletter.jsonl"
	ExpectedEnvSchemaVersion  = "1.0"
)
