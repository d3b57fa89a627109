package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/cockpit/internal/projects/application/queries"
	"github.com/felixgeelhaar/cockpit/internal/projects/application/services"
	"github.com/felixgeelhaar/cockpit/internal/projects/infrastructure/persistence"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cockpit/pkg/config"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

// Version is set at build time.
var Version = "dev"

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis backs the shared HTTP rate limiter. Nil when not configured.
	RedisClient *redis.Client

	// Observability
	Metrics    observability.Metrics
	Prometheus *observability.PrometheusMetrics
	Health     *observability.HealthRegistry

	// Project health
	ProjectReader            *persistence.ProjectReader
	AggregateLoader          *services.AggregateLoader
	GetProjectHealthHandler  *queries.GetProjectHealthHandler
	ListProjectHealthHandler *queries.ListProjectHealthHandler

	// Alerts
	EventPublisher eventbus.Publisher
	HealthSweep    *services.HealthSweep

	shutdownTracing func(context.Context) error
}

// NewContainer connects to the configured backends and wires the
// application. Without DATABASE_URL it runs against a local SQLite file and
// applies migrations automatically.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	if err := c.initObservability(ctx); err != nil {
		return nil, err
	}

	if err := c.initDatabase(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	c.wireProjects()

	logger.Info("container initialized",
		"driver", c.DBDriver,
		"redis", c.RedisClient != nil,
		"rabbitmq", cfg.RabbitMQURL != "",
	)
	return c, nil
}

func (c *Container) initObservability(ctx context.Context) error {
	if c.Config.MetricsEnabled {
		c.Prometheus = observability.NewPrometheusMetrics(nil)
		c.Metrics = c.Prometheus
	} else {
		c.Metrics = observability.NoopMetrics{}
	}

	shutdown, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName:    "cockpit",
		ServiceVersion: Version,
		Endpoint:       c.Config.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	c.shutdownTracing = shutdown
	return nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	driver := database.Driver(c.Config.DatabaseDriver)
	if driver == "auto" || driver == "" {
		driver = database.DetectDriver(c.Config.DatabaseURL)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     driver,
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
		MaxConns:   c.Config.DatabaseMaxConns,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Logger.Info("connected to database", "driver", c.DBDriver)

	// Local mode is zero-config; server databases are migrated explicitly.
	if c.DBDriver == database.DriverSQLite {
		if err := migrations.Apply(ctx, conn, c.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	c.Health.Register("database", observability.PingChecker("database", true, conn.Ping))
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, using in-process rate limiter", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, using in-process rate limiter", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.PingChecker("redis", false, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL == "" {
		bus := eventbus.NewInProcessBus(c.Logger)
		bus.Subscribe(eventbus.DefaultBinding, logAlert(c.Logger))
		c.EventPublisher = bus
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}
	c.EventPublisher = publisher
	return nil
}

func (c *Container) wireProjects() {
	cfg := c.Config

	c.ProjectReader = persistence.NewProjectReader(c.DBConn, c.DBDriver)

	loaderConfig := services.DefaultAggregateLoaderConfig()
	if cfg.AggregateTimeout > 0 {
		loaderConfig.Timeout = cfg.AggregateTimeout
	}
	if cfg.BreakerFailureThreshold > 0 {
		loaderConfig.FailureThreshold = cfg.BreakerFailureThreshold
	}
	if cfg.BreakerOpenTimeout > 0 {
		loaderConfig.OpenTimeout = cfg.BreakerOpenTimeout
	}

	c.AggregateLoader = services.NewAggregateLoader(
		c.ProjectReader, c.ProjectReader, c.ProjectReader,
		c.Metrics, c.Logger, loaderConfig,
	)

	c.GetProjectHealthHandler = queries.NewGetProjectHealthHandler(
		c.ProjectReader, c.AggregateLoader, c.Metrics, c.Logger)
	c.ListProjectHealthHandler = queries.NewListProjectHealthHandler(
		c.ProjectReader, c.AggregateLoader, c.Metrics, c.Logger, cfg.SweepConcurrency)

	c.HealthSweep = services.NewHealthSweep(
		c.ProjectReader, c.AggregateLoader, c.EventPublisher,
		c.Metrics, c.Logger, cfg.SweepConcurrency)
}

// logAlert is the in-process subscriber used when no broker is configured.
func logAlert(logger *slog.Logger) eventbus.Handler {
	return func(ctx context.Context, routingKey string, payload []byte) error {
		logger.InfoContext(ctx, "health alert", "routing_key", routingKey, "payload", string(payload))
		return nil
	}
}

// Close releases all resources. It is safe to call on a partially
// initialized container.
func (c *Container) Close() {
	var errs []error

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event publisher: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close Redis: %w", err))
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}

	if c.shutdownTracing != nil {
		if err := c.shutdownTracing(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error during shutdown", "error", err)
	}
}
