package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ChangesExchange = "ex.clients.changes" // fanout, one transient queue per instance
	EventsExchange  = "ex.clients.events"
	EventsQueue     = "q.client-events"
	EventsDLQ       = "q.client-events.dlq"
	DLXName         = "ex.dlx"
	EventsBinding   = "client.#"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func (r *RabbitMQ) Close() {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

func setupTopology(ch *amqp.Channel) error {
	// 1. DLX e DLQ
	if err := ch.ExchangeDeclare(DLXName, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(EventsDLQ, true, false, false, false, nil); err != nil {
		return err
	}

	if err := ch.QueueBind(EventsDLQ, EventsBinding, DLXName, false, nil); err != nil {
		return err
	}

	// 2. Exchange e fila principal de eventos
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	// rejected events keep their routing key on the way to the DLQ
	args := amqp.Table{
		"x-dead-letter-exchange": DLXName,
	}

	if _, err := ch.QueueDeclare(EventsQueue, true, false, false, false, args); err != nil {
		return err
	}

	if err := ch.QueueBind(EventsQueue, EventsBinding, EventsExchange, false, nil); err != nil {
		return err
	}

	// 3. Fanout das mudanças de coleção
	return ch.ExchangeDeclare(ChangesExchange, "fanout", true, false, false, false, nil)
}
