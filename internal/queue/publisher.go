package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends DA events to RabbitMQ.  Each publish uses a short-lived
// connection; update traffic is low and the broker may be absent.
type Publisher struct {
	URL         string
	DialTimeout time.Duration
}

func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url, DialTimeout: 2 * time.Second}
}

// PublishDAUpdated declares the durable queue and publishes ev as a
// persistent JSON message on the default exchange.
func (p *Publisher) PublishDAUpdated(ctx context.Context, ev DAUpdatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(DAUpdatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", DAUpdatedQueue, false, false, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
