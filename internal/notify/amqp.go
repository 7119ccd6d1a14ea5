package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSink publishes notifications to a durable topic exchange, routed by
// "notification.<type>", for downstream consumers such as mobile push.
type AMQPSink struct {
	exchange string
	conn     *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func DialAMQP(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPSink{exchange: exchange, conn: conn, ch: ch}, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

func RoutingKey(t domain.NotificationType) string {
	return "notification." + string(t)
}

func (s *AMQPSink) Send(ctx context.Context, n domain.Notification) error {
	body, err := encode(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx,
		s.exchange,
		RoutingKey(n.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID,
			Timestamp:    n.CreatedAt,
			Type:         string(n.Type),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Ping reports whether the broker connection is still open.
func (s *AMQPSink) Ping(_ context.Context) error {
	if s.conn.IsClosed() {
		return errors.New("amqp connection closed")
	}
	return nil
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.ch.Close()
	return s.conn.Close()
}
