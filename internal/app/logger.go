package app

import (
	"log/slog"

	"github.com/felixgeelhaar/cockpit/pkg/config"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

// NewLogger builds the service logger from configuration.
func NewLogger(cfg *config.Config, service string) *slog.Logger {
	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logCfg.ServiceName = service
	logCfg.ServiceVersion = Version
	return observability.NewLogger(logCfg)
}
