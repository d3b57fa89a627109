package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/felixgeelhaar/cockpit/pkg/observability"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type recordingAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue bool
}

func (a *recordingAcknowledger) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeue = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func newTestConsumer() *RabbitMQConsumer {
	return &RabbitMQConsumer{
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
		done:   make(chan struct{}),
	}
}

func TestRabbitMQConsumer_DeliverAcksAndPropagatesCorrelation(t *testing.T) {
	ack := &recordingAcknowledger{}
	c := newTestConsumer()

	var gotKey, gotCorrelation string
	handler := func(ctx context.Context, key string, _ []byte) error {
		gotKey = key
		gotCorrelation = observability.CorrelationIDFromContext(ctx)
		return nil
	}

	c.deliver(context.Background(), amqp.Delivery{
		Acknowledger:  ack,
		DeliveryTag:   7,
		RoutingKey:    "projects.health.red",
		CorrelationId: "sweep-42",
		Body:          []byte(`{}`),
	}, handler)

	assert.Equal(t, "projects.health.red", gotKey)
	assert.Equal(t, "sweep-42", gotCorrelation)
	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestRabbitMQConsumer_DeliverRequeuesOnHandlerError(t *testing.T) {
	ack := &recordingAcknowledger{}
	c := newTestConsumer()

	c.deliver(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 3}, func(context.Context, string, []byte) error {
		return errors.New("terminal offline")
	})

	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{3}, ack.nacked)
	assert.True(t, ack.requeue)
}
