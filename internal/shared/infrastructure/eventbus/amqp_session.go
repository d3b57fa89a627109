package eventbus

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange health alerts are published to.
const ExchangeName = "cockpit.project.health"

// session is one connection with one channel on which the health exchange
// has been declared.
type session struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func openSession(url string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	s := &session{conn: conn, channel: ch}
	// durable topic exchange, not auto-deleted, not internal
	if err := ch.ExchangeDeclare(ExchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = s.close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}
	return s, nil
}

func (s *session) close() error {
	var errs []error
	if s.channel != nil && !s.channel.IsClosed() {
		errs = append(errs, s.channel.Close())
	}
	if s.conn != nil && !s.conn.IsClosed() {
		errs = append(errs, s.conn.Close())
	}
	return errors.Join(errs...)
}
