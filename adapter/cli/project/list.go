package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cockpit/adapter/api"
	"github.com/felixgeelhaar/cockpit/adapter/cli"
	"github.com/felixgeelhaar/cockpit/internal/projects/application/queries"
)

var (
	listStatus           string
	listExcludeCompleted bool
	listLimit            int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects by health",
	Long: `List the health of all projects, red first, then yellow, then green.

Examples:
  cockpit project list
  cockpit project list --status in_bearbeitung
  cockpit project list --active --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListProjectHealthHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		if listLimit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		summaries, err := app.ListProjectHealthHandler.Handle(cmd.Context(), queries.ListProjectHealthQuery{
			Status:           listStatus,
			ExcludeCompleted: listExcludeCompleted,
			Limit:            listLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list project health: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, api.ProjectHealthListResponse{
				Projects: queries.ToSummaryDTOs(summaries),
				Count:    len(summaries),
			})
		}

		if len(summaries) == 0 {
			fmt.Fprintln(out, "No projects found.")
			return nil
		}

		fmt.Fprintf(out, "Found %d project(s):\n\n", len(summaries))
		for _, s := range summaries {
			status := s.Health.Status.String()
			fmt.Fprintf(out, "%s %s\n", cli.StatusIcon(status), s.Name)
			fmt.Fprintf(out, "   ID: %s\n", s.ProjectID)
			for _, r := range s.Health.Reasons {
				fmt.Fprintf(out, "   - %s\n", r.Title)
			}
			if a := s.Health.NextAction; a != nil {
				fmt.Fprintf(out, "   Next: %s\n", a.Title)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by lifecycle status (anfrage, besichtigung, geplant, in_bearbeitung, abgeschlossen)")
	listCmd.Flags().BoolVar(&listExcludeCompleted, "active", false, "exclude completed projects")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of projects (0 = all)")
}
