package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/felixgeelhaar/cockpit/internal/shared/infrastructure/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessBus_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	bus := eventbus.NewInProcessBus(logger)

	var red, all []string
	bus.Subscribe("projects.health.red", func(_ context.Context, key string, _ []byte) error {
		red = append(red, key)
		return nil
	})
	bus.Subscribe("projects.health.#", func(_ context.Context, key string, _ []byte) error {
		all = append(all, key)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, "projects.health.red", []byte(`{}`)))
	require.NoError(t, bus.Publish(ctx, "projects.health.invoice_missing", []byte(`{}`)))

	assert.Equal(t, []string{"projects.health.red"}, red)
	assert.Equal(t, []string{"projects.health.red", "projects.health.invoice_missing"}, all)
}

func TestInProcessBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)

	var payloads [][]byte
	bus.Subscribe("#", func(context.Context, string, []byte) error {
		return errors.New("boom")
	})
	bus.Subscribe("#", func(_ context.Context, _ string, payload []byte) error {
		payloads = append(payloads, payload)
		return nil
	})

	err := bus.Publish(context.Background(), "projects.health.red", []byte(`{"status":"red"}`))

	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.JSONEq(t, `{"status":"red"}`, string(payloads[0]))
}

func TestInProcessBus_NoSubscribers(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)

	assert.NoError(t, bus.Publish(context.Background(), "projects.health.red", nil))
	assert.NoError(t, bus.Close())
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)

	assert.NoError(t, p.Publish(context.Background(), "projects.health.red", []byte(`{}`)))
	assert.NoError(t, p.Close())
}
