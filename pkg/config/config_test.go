package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
	"DATABASE_URL", "DATABASE_DRIVER", "SQLITE_PATH", "DATABASE_MAX_CONNS",
	"REDIS_URL", "RABBITMQ_URL",
	"HTTP_ADDR", "HTTP_RATE_LIMIT",
	"METRICS_ENABLED", "OTEL_ENDPOINT",
	"MCP_ADDR", "MCP_AUTH_TOKEN",
	"WORKER_HEALTH_ADDR", "SWEEP_INTERVAL", "SWEEP_CONCURRENCY",
	"AGGREGATE_TIMEOUT", "BREAKER_FAILURE_THRESHOLD", "BREAKER_OPEN_TIMEOUT",
}

// unsetConfigEnv removes every config key for the duration of the test.
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "auto", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.DatabaseMaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 120, cfg.HTTPRateLimit)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 8, cfg.SweepConcurrency)
	assert.Equal(t, 5*time.Second, cfg.AggregateTimeout)
	assert.Equal(t, uint32(5), cfg.BreakerFailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.BreakerOpenTimeout)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsLocalMode())
}

func TestLoad_FromEnvironment(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://cockpit:secret@db:5432/cockpit")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("HTTP_RATE_LIMIT", "0")
	t.Setenv("SWEEP_INTERVAL", "1h")
	t.Setenv("SWEEP_CONCURRENCY", "2")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsLocalMode())
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, 0, cfg.HTTPRateLimit)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 2, cfg.SweepConcurrency)
	assert.Equal(t, uint32(3), cfg.BreakerFailureThreshold)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DATABASE_DRIVER", "mysql"},
		{"zero concurrency", "SWEEP_CONCURRENCY", "0"},
		{"negative rate limit", "HTTP_RATE_LIMIT", "-1"},
		{"malformed duration", "SWEEP_INTERVAL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
