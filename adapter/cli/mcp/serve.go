package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cockpit/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/cockpit/internal/mcp"
	"github.com/felixgeelhaar/cockpit/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long:  `Start the MCP server on MCP_ADDR. Tools: project.health, project.health_list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return errors.New("application not initialized - database connection required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		err = mcpinternal.Serve(cmd.Context(), cfg, app, cli.Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
