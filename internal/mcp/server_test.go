package mcp

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cockpit/adapter/cli"
	"github.com/felixgeelhaar/cockpit/pkg/config"
)

func TestNewServer_RegistersProjectTools(t *testing.T) {
	srv, err := NewServer(&cli.App{}, nil)
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	var names []any
	for _, tool := range tools {
		names = append(names, tool["name"])
	}
	assert.Contains(t, names, "project.health")
	assert.Contains(t, names, "project.health_list")
}

func TestNewServer_RequiresApp(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.EqualError(t, err, "app is required")
}

func TestServe_ValidatesArguments(t *testing.T) {
	ctx := context.Background()
	assert.EqualError(t, Serve(ctx, nil, &cli.App{}, nil), "config is required")
	assert.EqualError(t, Serve(ctx, &config.Config{}, nil, nil), "CLI app is required")
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{
		{Key: "tool", Value: "project.health"},
		{Key: "duration_ms", Value: 12},
	})
	assert.Equal(t, []any{"tool", "project.health", "duration_ms", 12}, args)
}
