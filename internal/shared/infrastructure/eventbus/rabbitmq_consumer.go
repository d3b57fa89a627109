package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/cockpit/pkg/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultBinding matches every health alert routing key.
const DefaultBinding = "projects.health.#"

// RabbitMQConsumerConfig configures the RabbitMQ consumer.
type RabbitMQConsumerConfig struct {
	URL string
	// QueueName names a durable queue. An empty name declares an exclusive,
	// server-named queue that disappears with the connection.
	QueueName string
	// Bindings are the topic patterns bound to the queue. Defaults to
	// DefaultBinding.
	Bindings []string
	Logger   *slog.Logger
}

// RabbitMQConsumer delivers messages from a queue bound to the health
// exchange to a single handler.
type RabbitMQConsumer struct {
	session *session
	queue   string
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = []string{DefaultBinding}
	}

	s, err := openSession(cfg.URL)
	if err != nil {
		return nil, err
	}

	queue, err := declareQueue(s.channel, cfg.QueueName, cfg.Bindings)
	if err != nil {
		_ = s.close()
		return nil, err
	}

	cfg.Logger.Info("alert consumer connected", "queue", queue, "bindings", cfg.Bindings)

	return &RabbitMQConsumer{
		session: s,
		queue:   queue,
		logger:  cfg.Logger,
		done:    make(chan struct{}),
	}, nil
}

func declareQueue(ch *amqp.Channel, name string, bindings []string) (string, error) {
	durable := name != ""
	// transient queues are auto-deleted and exclusive
	q, err := ch.QueueDeclare(name, durable, !durable, !durable, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}
	for _, pattern := range bindings {
		if err := ch.QueueBind(q.Name, pattern, ExchangeName, false, nil); err != nil {
			return "", fmt.Errorf("bind queue to %s: %w", pattern, err)
		}
	}
	return q.Name, nil
}

// Start consumes messages until ctx is done or Close is called. A message is
// acked when the handler succeeds and requeued when it fails. The handler
// context carries the message correlation ID.
func (c *RabbitMQConsumer) Start(ctx context.Context, handler Handler) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.session.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	// manual ack, not exclusive
	deliveries, err := c.session.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.deliver(ctx, d, handler)
		}
	}
}

func (c *RabbitMQConsumer) deliver(ctx context.Context, d amqp.Delivery, handler Handler) {
	if d.CorrelationId != "" {
		ctx = observability.WithCorrelationID(ctx, d.CorrelationId)
	}

	if err := handler(ctx, d.RoutingKey, d.Body); err != nil {
		c.logger.ErrorContext(ctx, "alert handler failed", "routing_key", d.RoutingKey, "error", err)
		if err := d.Nack(false, true); err != nil {
			c.logger.ErrorContext(ctx, "nack failed", "error", err)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		c.logger.ErrorContext(ctx, "ack failed", "error", err)
	}
}

// Close stops Start and closes the connection. It is safe to call twice.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	c.running = false

	if err := c.session.close(); err != nil {
		return fmt.Errorf("close consumer: %w", err)
	}
	c.logger.Info("alert consumer closed")
	return nil
}
