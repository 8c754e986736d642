package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"file-storage-api/config"
)

// Declarer is the part of *amqp091.Channel needed to set up the file events
// exchange and audit queue.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
}

// DeclareTopology declares a durable exchange and queue and binds the queue
// once per file action. It is idempotent, so publisher and consumer both
// call it.
func DeclareTopology(ch Declarer, cfg config.MQ) error {
	const (
		durable    = true
		autoDelete = false
		internal   = false
		exclusive  = false
		noWait     = false
	)

	if err := ch.ExchangeDeclare(cfg.Exchange, cfg.ExchangeType, durable, autoDelete, internal, noWait, nil); err != nil {
		return fmt.Errorf("exchange declare %s: %w", cfg.Exchange, err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, durable, autoDelete, exclusive, noWait, nil)
	if err != nil {
		return fmt.Errorf("queue declare %s: %w", cfg.QueueName, err)
	}

	for _, rk := range Actions {
		if err = ch.QueueBind(q.Name, rk, cfg.Exchange, noWait, nil); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	return nil
}
