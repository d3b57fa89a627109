package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cockpit/internal/projects/infrastructure/persistence"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo portfolio",
	Long: `Write four demo projects with time entries and material costs.

The portfolio contains one green, one red and two yellow projects,
with dates relative to today.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DBConn == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		projects, err := persistence.SeedDemo(cmd.Context(), app.DBConn, time.Now())
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Seeded %d project(s):\n", len(projects))
		for _, p := range projects {
			fmt.Fprintf(out, "  %s  %s\n", p.ID, p.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
