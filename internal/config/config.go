package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"required"`
	LogDir      string `validate:"required"`
	ServiceName string
	Version     string
	APIKey      string `validate:"required"` // API key for the ops endpoints

	TrustedProxies []string // TRUSTED_PROXIES, comma separated

	DBDriver   string `validate:"oneof=postgres sqlite"`
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string `validate:"required_if=DBDriver sqlite"`

	EconomyPath        string `validate:"required"`
	AuditDir           string
	AuditRetentionDays int `validate:"min=1"`
	DeadLetterPath     string
	LikeCacheSize      int           `validate:"min=1"`
	LikeCacheTTL       time.Duration `validate:"gt=0"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`
}

var envValidator = validator.New(validator.WithRequiredStructEnabled())

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		Environment:    getEnv("ENVIRONMENT", DefaultEnvironment),
		LogDir:         getEnv("LOG_DIR", DefaultLogDir),
		ServiceName:    getEnv("SERVICE_NAME", DefaultServiceName),
		Version:        getEnv("VERSION", DefaultVersion),
		APIKey:         getEnv("API_KEY", ""),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DBDriverPostgres)),
		DBUser:         getEnv("DB_USER", DefaultDBUser),
		DBPassword:     getEnv("DB_PASSWORD", DefaultDBPassword),
		DBHost:         getEnv("DB_HOST", DefaultDBHost),
		DBPort:         getEnv("DB_PORT", DefaultDBPort),
		DBName:         getEnv("DB_NAME", DefaultDBName),
		SQLitePath:     getEnv("SQLITE_PATH", DefaultSQLitePath),
		EconomyPath:    getEnv("ECONOMY_CONFIG", ConfigPathEconomy),
		AuditDir:       getEnv("AUDIT_DIR", DefaultAuditDir),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
		LikeCacheSize:  getEnvAsInt("LIKE_CACHE_SIZE", DefaultLikeCacheSize),

		AuditRetentionDays: getEnvAsInt("AUDIT_RETENTION_DAYS", DefaultAuditRetentionDays),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port
	cfg.TrustedProxies = getEnvAsList("TRUSTED_PROXIES")

	defaultTTL, _ := time.ParseDuration(DefaultLikeCacheTTL)
	cfg.LikeCacheTTL = getEnvAsDuration("LIKE_CACHE_TTL", defaultTTL)
	defaultShutdown, _ := time.ParseDuration(DefaultShutdownTimeout)
	cfg.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", defaultShutdown)

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := envValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer environment variable, falling back on parse errors
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsDuration parses a Go duration string, falling back on parse errors
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// ValidateEnvWithWarnings returns warnings for values that look like unedited examples
func (c *Config) ValidateEnvWithWarnings() []string {
	var warnings []string

	if schemaVersion := os.Getenv("ENV_SCHEMA_VERSION"); schemaVersion != "" && schemaVersion != ExpectedEnvSchemaVersion {
		warnings = append(warnings, fmt.Sprintf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion))
	}

	if c.DBDriver == DBDriverPostgres && c.DBPassword == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if c.APIKey == "generate_with_openssl_rand_hex_32" {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	return warnings
}
