package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/cockpit/pkg/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisher publishes persistent JSON messages to the health exchange.
// The correlation ID in the publishing context travels as the AMQP
// correlation-id property.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	session *session
	logger  *slog.Logger
}

func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := openSession(url)
	if err != nil {
		return nil, err
	}
	logger.Info("alert publisher connected", "exchange", ExchangeName)

	return &RabbitMQPublisher{session: s, logger: logger}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now().UTC(),
		CorrelationId: observability.CorrelationIDFromContext(ctx),
		Body:          payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// not mandatory, not immediate
	if err := p.session.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, msg); err != nil {
		p.logger.ErrorContext(ctx, "alert publish failed", "routing_key", routingKey, "error", err)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.DebugContext(ctx, "alert published", "routing_key", routingKey, "bytes", len(payload))
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.session.close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	p.logger.Info("alert publisher closed")
	return nil
}
