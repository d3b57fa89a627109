package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cockpit/adapter/cli"
	"github.com/felixgeelhaar/cockpit/internal/projects/application/queries"
	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
)

type projectHealthInput struct {
	ProjectID string `json:"project_id" jsonschema:"required"`
}

type projectHealthListInput struct {
	Status           string `json:"status,omitempty"`
	ExcludeCompleted bool   `json:"exclude_completed,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

type projectHealthListOutput struct {
	Projects []queries.ProjectHealthSummaryDTO `json:"projects"`
	Count    int                               `json:"count"`
}

func registerProjectTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("project.health").
		Description("Compute the traffic-light health of a project with reasons, next action and economy").
		Handler(func(ctx context.Context, input projectHealthInput) (*queries.ProjectHealthDTO, error) {
			return projectHealth(ctx, app, input)
		})

	srv.Tool("project.health_list").
		Description("List project health ordered red, yellow, green. Filter by lifecycle status (anfrage, besichtigung, geplant, in_bearbeitung, abgeschlossen)").
		Handler(func(ctx context.Context, input projectHealthListInput) (*projectHealthListOutput, error) {
			return projectHealthList(ctx, app, input)
		})

	return nil
}

func projectHealth(ctx context.Context, app *cli.App, input projectHealthInput) (*queries.ProjectHealthDTO, error) {
	if app == nil || app.GetProjectHealthHandler == nil {
		return nil, errors.New("project health requires database connection")
	}

	projectID, err := parseUUID(input.ProjectID)
	if err != nil {
		return nil, err
	}

	health, err := app.GetProjectHealthHandler.Handle(ctx, queries.GetProjectHealthQuery{ProjectID: projectID})
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, fmt.Errorf("project %s not found", projectID)
		}
		return nil, err
	}

	dto := queries.ToProjectHealthDTO(*health)
	return &dto, nil
}

func projectHealthList(ctx context.Context, app *cli.App, input projectHealthListInput) (*projectHealthListOutput, error) {
	if app == nil || app.ListProjectHealthHandler == nil {
		return nil, errors.New("project health requires database connection")
	}
	if input.Limit < 0 {
		return nil, errors.New("limit must not be negative")
	}

	summaries, err := app.ListProjectHealthHandler.Handle(ctx, queries.ListProjectHealthQuery{
		Status:           input.Status,
		ExcludeCompleted: input.ExcludeCompleted,
		Limit:            input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &projectHealthListOutput{
		Projects: queries.ToSummaryDTOs(summaries),
		Count:    len(summaries),
	}, nil
}
