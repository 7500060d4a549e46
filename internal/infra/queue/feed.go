package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/clientbook/internal/logger"
)

// RabbitFeed broadcasts collection changes through a fanout exchange.
type RabbitFeed struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
}

func NewRabbitFeed(r *RabbitMQ) *RabbitFeed {
	return &RabbitFeed{conn: r.Conn, ch: r.Ch}
}

func (f *RabbitFeed) Publish(ctx context.Context, collection string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.ch.PublishWithContext(ctx,
		ChangesExchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(collection),
		},
	)
	if err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Listen consumes on its own channel and exclusive queue. It returns an error
// when the broker closes the channel.
func (f *RabbitFeed) Listen(ctx context.Context, onChange func(collection string)) error {
	ch, err := f.conn.Channel()
	if err != nil {
		return fmt.Errorf("open listen channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare change queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", ChangesExchange, false, nil); err != nil {
		return fmt.Errorf("bind change queue: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume changes: %w", err)
	}

	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	logger.Log.Infof("👂 listening for record changes on %s (%s)", ChangesExchange, q.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errors.New("change channel closed")
			}
			return amqpErr
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("change delivery stream closed")
			}
			onChange(string(d.Body))
		}
	}
}
