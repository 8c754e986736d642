package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-storage-api/config"
)

// Events queued but not yet published. Past this the publisher is behind and
// new events are dropped.
const bufferSize = 128

const (
	ActionFileUploaded = "file.uploaded"
	ActionFileDeleted  = "file.deleted"
)

// Actions are also used as routing keys.
var Actions = []string{ActionFileUploaded, ActionFileDeleted}

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id       uuid.UUID `json:"event_id"`
		TS       time.Time `json:"time_stamp"`
		Action   string    `json:"event_action"`
		PublicID string    `json:"public_id"`
		Payload  Payload   `json:"file_payload"`
	}
	Payload struct {
		Email            string `json:"email"`
		Label            string `json:"label"`
		OriginalFilename string `json:"original_filename"`
		ContentType      string `json:"content_type"`
		FileSize         int64  `json:"file_size"`
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger.With(zap.String("component", "mq_publisher")),
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	conn, err := amqp091.DialConfig(dsn, amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "filestorage-publisher",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	})
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	r.conn, r.pubCh = conn, ch

	r.log.Info("rabbitmq connected successfully", zap.String("exchange", r.cfg.Exchange))

	return nil
}

func (r *RabbitMQ) Init() error {
	if err := DeclareTopology(r.pubCh, r.cfg); err != nil {
		_ = r.pubCh.Close()
		return err
	}

	return nil
}

// Publish hands e to the publisher worker. A full buffer drops the event:
// file operations must not wait on the broker.
func (r *RabbitMQ) Publish(e Event) {
	select {
	case r.in <- e:
	default:
		r.log.Error("mq buffer full, event dropped",
			zap.String("event_action", e.Action),
			zap.String("public_id", e.PublicID),
		)
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")
	defer r.log.Info("publisher worker gracefully stopped")

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				r.log.Error("mq publish error",
					zap.String("event_action", e.Action),
					zap.String("public_id", e.PublicID),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			if n := len(r.in); n > 0 {
				r.log.Warn("unpublished events discarded on shutdown", zap.Int("count", n))
			}
			_ = r.pubCh.Close()
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	pub, err := toPublishing(e)
	if err != nil {
		return err
	}

	return r.pubCh.PublishWithContext(ctx, r.cfg.Exchange, e.Action, true, false, pub)
}

func toPublishing(e Event) (amqp091.Publishing, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}, nil
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(Event) {}
