package mq

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-storage-api/config"
)

func TestPublish_DropsWhenBufferFull(t *testing.T) {
	r := New(config.MQ{}, zap.NewNop())

	for i := 0; i < bufferSize+10; i++ {
		r.Publish(Event{Id: uuid.New(), Action: ActionFileUploaded})
	}

	assert.Len(t, r.in, bufferSize)
}

func TestEvent_JSON(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := Event{
		Id:       uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
		TS:       ts,
		Action:   ActionFileDeleted,
		PublicID: "pub-1",
		Payload: Payload{
			Email:            "a@b.c",
			Label:            "resume",
			OriginalFilename: "cv.pdf",
			ContentType:      "application/pdf",
			FileSize:         42,
		},
	}

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "file.deleted", got["event_action"])
	assert.Equal(t, "pub-1", got["public_id"])
	payload := got["file_payload"].(map[string]any)
	assert.Equal(t, "cv.pdf", payload["original_filename"])
	assert.EqualValues(t, 42, payload["file_size"])
}

func TestNop_Publish(t *testing.T) {
	assert.NotPanics(t, func() { Nop{}.Publish(Event{}) })
}

func TestToPublishing(t *testing.T) {
	e := Event{
		Id:       uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
		TS:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Action:   ActionFileUploaded,
		PublicID: "pub-1",
	}

	pub, err := toPublishing(e)
	require.NoError(t, err)
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, amqp091.Persistent, pub.DeliveryMode)
	assert.Equal(t, e.Id.String(), pub.MessageId)
	assert.Equal(t, ActionFileUploaded, pub.Type)

	var back Event
	require.NoError(t, json.Unmarshal(pub.Body, &back))
	assert.Equal(t, e, back)
}

type fakeDeclarer struct {
	exchanges []string
	queues    []string
	bindings  []string
	bindErr   error
}

func (f *fakeDeclarer) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp091.Table) error {
	f.exchanges = append(f.exchanges, name+":"+kind)
	if !durable {
		return errors.New("exchange must be durable")
	}
	return nil
}

func (f *fakeDeclarer) QueueDeclare(name string, _, _, _, _ bool, _ amqp091.Table) (amqp091.Queue, error) {
	f.queues = append(f.queues, name)
	return amqp091.Queue{Name: name}, nil
}

func (f *fakeDeclarer) QueueBind(name, key, exchange string, _ bool, _ amqp091.Table) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bindings = append(f.bindings, exchange+"/"+key+"->"+name)
	return nil
}

func TestDeclareTopology(t *testing.T) {
	cfg := config.MQ{Exchange: "files", ExchangeType: "direct", QueueName: "files.audit"}

	d := &fakeDeclarer{}
	require.NoError(t, DeclareTopology(d, cfg))
	assert.Equal(t, []string{"files:direct"}, d.exchanges)
	assert.Equal(t, []string{"files.audit"}, d.queues)
	assert.Equal(t, []string{
		"files/file.uploaded->files.audit",
		"files/file.deleted->files.audit",
	}, d.bindings)

	d = &fakeDeclarer{bindErr: errors.New("access refused")}
	err := DeclareTopology(d, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file.uploaded")
}
