package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inventory-order-service/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func TestPublishOrderEvent_KeysByOrderID(t *testing.T) {
	w := &fakeWriter{}
	p := newProducerWithWriter(w, DefaultOrderEventsTopic, zap.NewNop())

	evt := models.OrderEvent{Type: models.EventOrderCancelled, OrderID: "order-1", Status: "cancelled", Total: "0.00"}
	require.NoError(t, p.PublishOrderEvent(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.Empty(t, msg.Topic)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, models.EventOrderCancelled, string(msg.Headers[0].Value))

	var decoded models.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Status, decoded.Status)
}

func TestPublishOrderEvent_ReturnsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducerWithWriter(w, DefaultOrderEventsTopic, zap.NewNop())

	err := p.PublishOrderEvent(context.Background(), models.OrderEvent{OrderID: "order-1"})

	assert.EqualError(t, err, "broker down")
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
