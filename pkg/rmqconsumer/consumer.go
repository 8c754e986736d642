package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-storage-api/config"
	"file-storage-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var actionNames = map[string]string{
	mq.ActionFileUploaded: "FileUploaded",
	mq.ActionFileDeleted:  "FileDeleted",
}

// Consumer reads file events back from the audit queue and writes one line
// per event to out.
type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	out        io.Writer
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger.With(zap.String("component", "mq_consumer")),
		out:  os.Stdout,
		conn: conn,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully", zap.String("queue", c.cfg.QueueName))

	return nil
}

func (c *Consumer) Init() error {
	if err := mq.DeclareTopology(c.chConsume, c.cfg); err != nil {
		return err
	}
	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	deliveries, err := c.chConsume.Consume(
		c.cfg.QueueName,
		"filestorage-audit", // consumer tag
		false,               // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.chDelivery = deliveries

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")
	defer c.log.Info("delivery worker gracefully stopped")

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				return
			}
			c.handle(msg)
		case <-ctx.Done():
			_ = c.chConsume.Close()
			return
		}
	}
}

// handle acks what could be written and rejects the rest without requeue, so
// a malformed event can't loop forever.
func (c *Consumer) handle(msg amqp091.Delivery) {
	if err := c.delivery(msg); err != nil {
		c.log.Error("mq read message error",
			zap.String("routing_key", msg.RoutingKey),
			zap.String("message_id", msg.MessageId),
			zap.Error(err),
		)
		if nerr := msg.Nack(false, false); nerr != nil {
			c.log.Error("mq nack error", zap.Error(nerr))
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		c.log.Error("mq ack error", zap.Error(err))
	}
}

func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var e mq.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	_, err := fmt.Fprintf(c.out,
		"Action=%s EventBody=%s\n",
		actionNames[msg.RoutingKey],
		string(msg.Body),
	)

	return err
}
