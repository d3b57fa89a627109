package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	// Database. An empty URL selects local SQLite mode.
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseDriver   string `env:"DATABASE_DRIVER" envDefault:"auto"`
	SQLitePath       string `env:"SQLITE_PATH"`
	DatabaseMaxConns int    `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// Redis backs the HTTP rate limiter. Empty uses an in-process limiter.
	RedisURL string `env:"REDIS_URL"`

	// RabbitMQ receives health alerts. Empty keeps alerts in process.
	RabbitMQURL string `env:"RABBITMQ_URL"`

	// HTTP API
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	HTTPRateLimit int    `env:"HTTP_RATE_LIMIT" envDefault:"120"`

	// Observability
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	OTelEndpoint   string `env:"OTEL_ENDPOINT"`

	// MCP
	MCPAddr      string `env:"MCP_ADDR" envDefault:"0.0.0.0:8082"`
	MCPAuthToken string `env:"MCP_AUTH_TOKEN"`

	// Worker
	WorkerHealthAddr string        `env:"WORKER_HEALTH_ADDR" envDefault:"0.0.0.0:8081"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL" envDefault:"15m"`
	SweepConcurrency int           `env:"SWEEP_CONCURRENCY" envDefault:"8"`

	// Aggregate sources
	AggregateTimeout        time.Duration `env:"AGGREGATE_TIMEOUT" envDefault:"5s"`
	BreakerFailureThreshold uint32        `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	BreakerOpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

// Load loads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "auto", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q: want auto, sqlite or postgres", c.DatabaseDriver)
	}
	if c.SweepConcurrency < 1 {
		return fmt.Errorf("invalid SWEEP_CONCURRENCY %d: must be at least 1", c.SweepConcurrency)
	}
	if c.HTTPRateLimit < 0 {
		return fmt.Errorf("invalid HTTP_RATE_LIMIT %d: must not be negative", c.HTTPRateLimit)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsLocalMode returns true when no database URL is configured and the
// embedded SQLite database is used.
func (c *Config) IsLocalMode() bool {
	return c.DatabaseURL == "" && c.DatabaseDriver != "postgres"
}
