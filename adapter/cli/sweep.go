package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate every project once and publish alerts",
	Long: `Run a single health sweep: evaluate every project, publish an alert
for each red project and for completed projects without an invoice.

The worker binary runs the same sweep on an interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.HealthSweep == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		result, err := app.HealthSweep.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("health sweep: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Evaluated %d project(s): %d red, %d yellow, %d green\n",
			result.Evaluated, result.Red, result.Yellow, result.Green)
		fmt.Fprintf(out, "Published %d alert(s)", result.Published)
		if result.PublishFailures > 0 {
			fmt.Fprintf(out, ", %d failed", result.PublishFailures)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
