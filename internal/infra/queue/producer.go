package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/clientbook/internal/entity"
)

type EventProducer struct {
	mu sync.Mutex
	Ch *amqp.Channel
}

func NewEventProducer(ch *amqp.Channel) *EventProducer {
	return &EventProducer{Ch: ch}
}

// Notify publishes the event with its type as routing key.
func (p *EventProducer) Notify(ctx context.Context, event entity.ClientEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.Ch.PublishWithContext(ctx,
		EventsExchange,
		string(event.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	return nil
}
