package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the configured backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Checks == nil {
			return fmt.Errorf("app not initialized")
		}

		result := app.Checks.Check(cmd.Context())
		out := cmd.OutOrStdout()

		names := make([]string, 0, len(result.Checks))
		for name := range result.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := result.Checks[name]
			line := fmt.Sprintf("%-10s %s", name, check.Status)
			if check.Message != "" {
				line += " (" + check.Message + ")"
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "overall    %s\n", result.Status)

		if result.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
