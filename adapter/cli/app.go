package cli

import (
	"github.com/felixgeelhaar/cockpit/adapter/api"
	"github.com/felixgeelhaar/cockpit/internal/projects/application/queries"
	"github.com/felixgeelhaar/cockpit/internal/projects/application/services"
	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Project health
	GetProjectHealthHandler  *queries.GetProjectHealthHandler
	ListProjectHealthHandler *queries.ListProjectHealthHandler
	HealthSweep              *services.HealthSweep

	// Infrastructure
	DBConn database.Connection
	Checks *observability.HealthRegistry

	// APIServer is started by the serve command.
	APIServer *api.Server

	// RabbitMQURL is the broker the alerts watch command consumes from.
	RabbitMQURL string
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	getHealth *queries.GetProjectHealthHandler,
	listHealth *queries.ListProjectHealthHandler,
	sweep *services.HealthSweep,
	conn database.Connection,
	checks *observability.HealthRegistry,
) *App {
	return &App{
		GetProjectHealthHandler:  getHealth,
		ListProjectHealthHandler: listHealth,
		HealthSweep:              sweep,
		DBConn:                   conn,
		Checks:                   checks,
	}
}

// SetAPIServer updates the API server used by serve.
func (a *App) SetAPIServer(server *api.Server) {
	a.APIServer = server
}

// SetRabbitMQURL updates the broker URL used by alerts watch.
func (a *App) SetRabbitMQURL(url string) {
	a.RabbitMQURL = url
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
