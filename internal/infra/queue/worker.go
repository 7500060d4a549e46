package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

type EventHandler func(ctx context.Context, event entity.ClientEvent) error

type Worker struct {
	Channel *amqp.Channel
	Handle  EventHandler
}

func NewWorker(ch *amqp.Channel, handle EventHandler) *Worker {
	return &Worker{
		Channel: ch,
		Handle:  handle,
	}
}

// Start consumes until ctx ends or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	logger.Log.Infof("[*] event worker waiting on '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.process(ctx, d)
		}
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	var event entity.ClientEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logger.Log.WithError(err).Error("❌ [WORKER] invalid event payload")
		// Mensagem podre (malformada): sem requeue, vai direto para a DLQ
		d.Nack(false, false)
		return
	}

	// Processamento Real
	if err := w.Handle(ctx, event); err != nil {
		logger.Log.WithError(err).WithField("type", event.Type).Error("❌ [WORKER] event handler failed")
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
