package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project health HTTP API",
	Long: `Serve the project health HTTP API until interrupted.

Endpoints:
  GET /health
  GET /metrics
  GET /api/v1/projects/health
  GET /api/v1/projects/{projectID}/health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.APIServer == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		errCh := make(chan error, 1)
		go func() {
			errCh <- app.APIServer.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.APIServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown API server: %w", err)
		}
		return <-errCh
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
