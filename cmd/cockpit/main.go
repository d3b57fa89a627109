package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/cockpit/adapter/api"
	"github.com/felixgeelhaar/cockpit/adapter/cli"
	cliMCP "github.com/felixgeelhaar/cockpit/adapter/cli/mcp"
	"github.com/felixgeelhaar/cockpit/adapter/cli/project"
	"github.com/felixgeelhaar/cockpit/internal/app"
	mcpinternal "github.com/felixgeelhaar/cockpit/internal/mcp"
	"github.com/felixgeelhaar/cockpit/pkg/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app.Version = cli.Version
	logger := app.NewLogger(cfg, "cockpit")
	cli.SetLogger(logger)

	// The CLI still offers version and help without a database.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		cliApp = mcpinternal.NewCLIApp(container)
		cliApp.SetAPIServer(newAPIServer(cfg, container, logger))
	}

	cli.SetApp(cliApp)

	cli.AddCommand(project.Cmd)
	cli.AddCommand(cliMCP.Cmd)

	cli.Execute(ctx)
}

func newAPIServer(cfg *config.Config, container *app.Container, logger *slog.Logger) *api.Server {
	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	serverCfg.RateLimit = cfg.HTTPRateLimit

	var limiter api.RateLimiter = api.NewMemoryRateLimiter()
	if container.RedisClient != nil {
		limiter = api.NewRedisRateLimiter(container.RedisClient, logger)
	}

	deps := api.ServerDeps{
		Projects: api.NewProjectHealthHandler(
			container.GetProjectHealthHandler,
			container.ListProjectHealthHandler,
			logger,
		),
		Checks:  container.Health,
		Metrics: container.Metrics,
		Limiter: limiter,
		Logger:  logger,
	}
	if container.Prometheus != nil {
		deps.MetricsHandler = container.Prometheus.Handler()
	}
	return api.NewServer(serverCfg, deps)
}
