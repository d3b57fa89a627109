package mcp

import (
	"github.com/felixgeelhaar/cockpit/adapter/cli"
	"github.com/felixgeelhaar/cockpit/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(
		container.GetProjectHealthHandler,
		container.ListProjectHealthHandler,
		container.HealthSweep,
		container.DBConn,
		container.Health,
	)
	cliApp.SetRabbitMQURL(container.Config.RabbitMQURL)
	return cliApp
}
