package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common project health workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("portfolio_triage").
		Description("Review all projects and decide what to tackle first.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Portfolio Triage",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me triage my project portfolio.

Please:
1. Use the project.health_list tool with exclude_completed=true
2. For every red project, explain each reason in one sentence
3. Group yellow projects by their next action
4. Suggest the three actions I should take today, most urgent first

Then check completed projects with project.health_list status=abgeschlossen
and list those still waiting for an invoice.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("project_review").
		Description("Walk through the health of one project and plan the next step.").
		Argument("project_id", "ID of the project to review", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			projectID := args["project_id"]
			if projectID == "" {
				projectID = "[Please provide the project ID]"
			}

			return &mcp.PromptResult{
				Description: "Project Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Review the health of project %s.

Please:
1. Use the project.health tool to load its status
2. Explain each reason and how severe it is
3. Summarise the economy: target revenue, costs so far, gross margin
4. Describe the recommended next action and what I need to prepare for it`, projectID),
						},
					},
				},
			}, nil
		})

	return nil
}
