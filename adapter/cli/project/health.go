package project

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cockpit/adapter/cli"
	"github.com/felixgeelhaar/cockpit/internal/projects/application/queries"
	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
)

var healthCmd = &cobra.Command{
	Use:   "health [project-id]",
	Short: "Show project health, reasons and next action",
	Long: `Display the traffic-light status of a project with the reasons behind it,
the recommended next action and the economic summary.

Status Legend:
  🟢 green   No findings
  🟡 yellow  Something needs attention
  🔴 red     At least one critical finding

Examples:
  cockpit project health 3f2c8a4e-5b1d-4c7e-9a0f-1e2d3c4b5a69
  cockpit project health 3f2c8a4e-5b1d-4c7e-9a0f-1e2d3c4b5a69 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetProjectHealthHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrInvalidProjectID, args[0])
		}

		health, err := app.GetProjectHealthHandler.Handle(cmd.Context(), queries.GetProjectHealthQuery{ProjectID: projectID})
		if err != nil {
			if errors.Is(err, domain.ErrProjectNotFound) {
				return fmt.Errorf("project %s not found", projectID)
			}
			return fmt.Errorf("failed to compute project health: %w", err)
		}

		dto := queries.ToProjectHealthDTO(*health)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), dto)
		}
		printHealth(cmd.OutOrStdout(), dto)
		return nil
	},
}

func printHealth(out io.Writer, h queries.ProjectHealthDTO) {
	fmt.Fprintf(out, "Health: %s %s\n\n", cli.StatusIcon(h.Status), h.Status)

	if len(h.Reasons) == 0 {
		fmt.Fprintln(out, "No findings. The project is on track.")
	} else {
		fmt.Fprintf(out, "Reasons (%d):\n", len(h.Reasons))
		for _, r := range h.Reasons {
			fmt.Fprintf(out, "  %s %s\n", cli.StatusIcon(r.Severity), r.Title)
			if r.Detail != "" {
				fmt.Fprintf(out, "     %s\n", r.Detail)
			}
		}
	}

	if a := h.NextAction; a != nil {
		fmt.Fprintln(out, "\nNext action:")
		fmt.Fprintf(out, "  %s\n", a.Title)
		fmt.Fprintf(out, "  %s\n", a.Description)
		fmt.Fprintf(out, "  [%s] %s\n", a.CTALabel, a.CTARoute)
	}

	fmt.Fprintln(out, "\nEconomy:")
	fmt.Fprintf(out, "  Target revenue: %s\n", formatEuro(h.Economy.TargetRevenue))
	fmt.Fprintf(out, "  Actual costs:   %.2f €\n", h.Economy.ActualCosts)
	fmt.Fprintf(out, "  Gross profit:   %s\n", formatEuro(h.Economy.GrossProfit))
	if h.Economy.GrossMarginPct != nil {
		fmt.Fprintf(out, "  Gross margin:   %d%%\n", *h.Economy.GrossMarginPct)
	} else {
		fmt.Fprintln(out, "  Gross margin:   -")
	}
}

func formatEuro(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f €", *v)
}
