package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"file-storage-api/internal/infrastructure/mq"
)

type RabbitMQ interface {
	FileEvents
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}

// FileEvents never blocks; events that can't be queued are dropped.
type FileEvents interface {
	Publish(e mq.Event)
}

// RMQConsumer drains the audit queue until ctx is done.
type RMQConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
}
