package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "API_KEY", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "LOG_DIR",
	"DB_DRIVER", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "SQLITE_PATH",
	"ECONOMY_CONFIG", "AUDIT_DIR", "DEAD_LETTER_PATH", "LIKE_CACHE_SIZE", "LIKE_CACHE_TTL",
	"SHUTDOWN_TIMEOUT", "ENV_SCHEMA_VERSION", "SERVICE_NAME", "VERSION", "AUDIT_RETENTION_DAYS",
	"TRUSTED_PROXIES",
}

// clearEnvVars unsets every variable Load reads and restores them after the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, DefaultAuditRetentionDays, cfg.AuditRetentionDays)
		assert.Equal(t, DefaultServiceName, cfg.ServiceName)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, DBDriverPostgres, cfg.DBDriver)
		assert.Equal(t, ConfigPathEconomy, cfg.EconomyPath)
		assert.Equal(t, time.Hour, cfg.LikeCacheTTL)
		assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("SQLITE_PATH", "/tmp/field.db")
		t.Setenv("LIKE_CACHE_SIZE", "64")
		t.Setenv("LIKE_CACHE_TTL", "5m")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, DBDriverSQLite, cfg.DBDriver)
		assert.Equal(t, "/tmp/field.db", cfg.SQLitePath)
		assert.Equal(t, 64, cfg.LikeCacheSize)
		assert.Equal(t, 5*time.Minute, cfg.LikeCacheTTL)
	})

	t.Run("returns error when API_KEY is missing", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "API_KEY")
		assert.Contains(t, err.Error(), "must be set")
	})

	t.Run("returns error for invalid PORT", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("PORT", "not-a-number")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid PORT")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("DB_DRIVER", "mysql")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DBDriver")
	})
}

func TestGetEnvAsInt(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("parses valid integer from env var", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "100")
		assert.Equal(t, 100, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("returns default for invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "42.5")
		assert.Equal(t, 10, getEnvAsInt("TEST_INT_VAR", 10))
	})
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST_VAR", " 10.0.0.1, ,192.168.1.0/24,")
	assert.Equal(t, []string{"10.0.0.1", "192.168.1.0/24"}, getEnvAsList("TEST_LIST_VAR"))

	os.Unsetenv("TEST_LIST_VAR")
	assert.Empty(t, getEnvAsList("TEST_LIST_VAR"))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Run("parses valid duration from env var", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "10m")
		assert.Equal(t, 10*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})

	t.Run("returns default for invalid duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "soon")
		assert.Equal(t, 5*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})
}

func TestValidateEnvWithWarnings(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("ENV_SCHEMA_VERSION", "0.9")

	cfg := &Config{DBDriver: DBDriverPostgres, DBPassword: "change_this_secure_password", APIKey: "generate_with_openssl_rand_hex_32"}
	warnings := cfg.ValidateEnvWithWarnings()

	assert.Len(t, warnings, 3)
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.GetDBConnString())
}
