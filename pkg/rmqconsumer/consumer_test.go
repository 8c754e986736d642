package rmqconsumer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-storage-api/config"
)

func Test_delivery_Table(t *testing.T) {
	type tc struct {
		name       string
		routingKey string
		body       string
		wantOut    string
		wantErr    bool
	}
	cases := []tc{
		{"uploaded -> FileUploaded", "file.uploaded", `{"public_id":"a"}`, "Action=FileUploaded EventBody={\"public_id\":\"a\"}\n", false},
		{"deleted -> FileDeleted", "file.deleted", `{"public_id":"b"}`, "Action=FileDeleted EventBody={\"public_id\":\"b\"}\n", false},
		{"Unknown -> empty", "file.renamed", `{"public_id":"c"}`, "Action= EventBody={\"public_id\":\"c\"}\n", false},
		{"malformed body", "file.uploaded", `not json`, "", true},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := &Consumer{out: &buf}

			msg := amqp091.Delivery{RoutingKey: tt.routingKey, Body: []byte(tt.body)}
			err := c.delivery(msg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantOut, buf.String())
		})
	}
}

type fakeAcker struct {
	acked, nacked, requeued bool
}

func (f *fakeAcker) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}
func (f *fakeAcker) Reject(uint64, bool) error { return errors.New("not used") }

func Test_handle_AckAndNack(t *testing.T) {
	c := &Consumer{out: &bytes.Buffer{}, log: zap.NewNop()}

	ok := &fakeAcker{}
	c.handle(amqp091.Delivery{Acknowledger: ok, RoutingKey: "file.deleted", Body: []byte(`{}`)})
	assert.True(t, ok.acked)
	assert.False(t, ok.nacked)

	bad := &fakeAcker{}
	c.handle(amqp091.Delivery{Acknowledger: bad, RoutingKey: "file.deleted", Body: []byte(`{`)})
	assert.False(t, bad.acked)
	assert.True(t, bad.nacked)
	assert.False(t, bad.requeued)
}

func TestConnect_InvalidDSN(t *testing.T) {
	l := zap.NewNop()
	c := New(config.MQ{}, l, nil)

	err := c.Connect("amqp://bad:://dsn")
	require.Error(t, err)
	require.Nil(t, c.chConsume)
	require.Nil(t, c.conn)
}
