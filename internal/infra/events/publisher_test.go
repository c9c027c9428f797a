package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/pkg/logger"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, time.Second, logger.NewNop())

	event := NewEvent(BookingCreated, "booking-42", BookingPayload{BookingID: 42, ClubID: 1, BerthID: 5, Status: "pending"})
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "booking-42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "booking.created", string(msg.Headers[0].Value))

	var decoded struct {
		ID      string                 `json:"id"`
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "booking.created", decoded.Type)
	assert.Equal(t, float64(42), decoded.Payload["bookingId"])
}

func TestPublishWriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	publisher := newKafkaPublisher(writer, 0, logger.NewNop())

	err := publisher.Publish(context.Background(), NewEvent(PaymentPaid, "booking-1", PaymentPayload{PaymentID: 1}))
	assert.True(t, errors.Is(err, ErrWrite))
}

func TestNewEventAssignsUniqueIDs(t *testing.T) {
	a := NewEvent(PaymentOverdue, "k", nil)
	b := NewEvent(PaymentOverdue, "k", nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestClose(t *testing.T) {
	writer := &fakeWriter{}
	require.NoError(t, newKafkaPublisher(writer, 0, logger.NewNop()).Close())
	assert.True(t, writer.closed)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
