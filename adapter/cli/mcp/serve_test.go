package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/cockpit/adapter/cli"
)

func TestServeCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	serveCmd.SetContext(context.Background())

	err := serveCmd.RunE(serveCmd, nil)
	assert.EqualError(t, err, "application not initialized - database connection required")
}

func TestCmd_RegistersServe(t *testing.T) {
	sub, _, err := Cmd.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.Equal(t, "serve", sub.Name())
}
