package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
)

// RegisterResources registers MCP resources that expose project health.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("cockpit://projects/health").
		Name("Project health").
		Description("Health of all projects, red first").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			out, err := projectHealthList(ctx, app, projectHealthListInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, out)
		})

	srv.Resource("cockpit://projects/health/active").
		Name("Active project health").
		Description("Health of all projects that are not completed").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			out, err := projectHealthList(ctx, app, projectHealthListInput{ExcludeCompleted: true})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, out)
		})

	srv.Resource("cockpit://projects/health/red").
		Name("Critical projects").
		Description("Projects whose health is red").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			out, err := projectHealthList(ctx, app, projectHealthListInput{})
			if err != nil {
				return nil, err
			}
			red := out.Projects[:0]
			for _, p := range out.Projects {
				if p.Health.Status == domain.TrafficLightRed.String() {
					red = append(red, p)
				}
			}
			out.Projects = red
			out.Count = len(red)
			return jsonResource(uri, out)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
