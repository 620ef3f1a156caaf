package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type placed struct {
	OrderID string `json:"order_id"`
	Lines   int    `json:"lines"`
}

func TestKafkaProducerPublish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, config: KafkaConfig{TopicPrefix: "ecommerce."}}

	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	require.NoError(t, p.Publish(ctx, "order.placed", "o-1", placed{OrderID: "o-1", Lines: 2}))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "ecommerce.order.placed", msg.Topic)
	assert.Equal(t, "o-1", string(msg.Key))

	var got placed
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, placed{OrderID: "o-1", Lines: 2}, got)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{"event_type": "ecommerce.order.placed", "request_id": "req-1"}, headers)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaProducerPublishErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaProducer{writer: w}

	err := p.Publish(context.Background(), "order.deleted", "o-1", placed{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	err = p.Publish(context.Background(), "order.deleted", "o-1", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "t", "k", nil))
	assert.NoError(t, p.Close())
}
