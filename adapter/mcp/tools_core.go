package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cockpit/adapter/cli"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check connectivity to the database and other backends").
		Handler(func(ctx context.Context, input struct{}) (observability.OverallHealth, error) {
			if app == nil || app.Checks == nil {
				return observability.OverallHealth{}, errors.New("app not initialized")
			}
			return app.Checks.Check(ctx), nil
		})

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	return nil
}
