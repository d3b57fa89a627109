package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// InProcessBus is an in-memory event bus for local mode (no RabbitMQ).
// Messages are delivered synchronously to every subscription whose topic
// pattern matches the routing key.
type InProcessBus struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *slog.Logger
}

type subscription struct {
	pattern string
	handler Handler
}

// NewInProcessBus creates a new in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers a handler for routing keys matching pattern.
func (b *InProcessBus) Subscribe(pattern string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, subscription{pattern: pattern, handler: handler})
}

// Publish dispatches the message to all matching subscriptions. Handler
// errors are logged and never fail the publish.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subscriptions))
	copy(subs, b.subscriptions)
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if !MatchTopic(sub.pattern, routingKey) {
			continue
		}

		start := time.Now()
		if err := sub.handler(ctx, routingKey, payload); err != nil {
			b.logger.Error("message dispatch failed",
				"routing_key", routingKey,
				"pattern", sub.pattern,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			continue
		}
		delivered++
	}

	b.logger.Debug("message dispatched",
		"routing_key", routingKey,
		"subscribers", delivered,
	)
	return nil
}

// Close is a no-op for in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}
