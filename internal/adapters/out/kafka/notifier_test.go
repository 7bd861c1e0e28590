package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestNotifier(w *recordingWriter) *Notifier {
	n := NewNotifier(w, Topics{Locker: "locker-notifications", General: "notifications"})
	n.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	return n
}

func TestNotifier_Notify_PublishesEnvelope(t *testing.T) {
	w := &recordingWriter{}
	n := newTestNotifier(w)
	msg := ports.Notification{
		UserID:         kernel.NewUUID(),
		OrderID:        kernel.NewUUID(),
		Channel:        ports.ChannelLocker,
		Type:           "order_ready_for_pickup",
		Title:          "Ready for pickup",
		Message:        "Your PIN is 123456",
		IdempotencyKey: "key-1",
	}

	require.NoError(t, n.Notify(context.Background(), msg))

	require.Len(t, w.messages, 1)
	m := w.messages[0]
	assert.Equal(t, "locker-notifications", m.Topic)
	assert.Equal(t, "key-1", string(m.Key))
	assert.Contains(t, m.Headers, kafka.Header{Key: headerEventType, Value: []byte("order_ready_for_pickup")})

	var env Envelope
	require.NoError(t, json.Unmarshal(m.Value, &env))
	assert.Equal(t, "order_ready_for_pickup", env.EventType)
	assert.Equal(t, producerName, env.Producer)
	assert.Equal(t, msg.OrderID.String(), env.CorrelationID)
	assert.NotEmpty(t, env.EventID)

	var payload NotificationPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, msg.UserID.String(), payload.UserID)
	assert.Equal(t, "Your PIN is 123456", payload.Message)
	assert.Equal(t, "key-1", payload.IdempotencyKey)
}

func TestNotifier_Notify_GeneralTopic(t *testing.T) {
	w := &recordingWriter{}
	n := newTestNotifier(w)

	require.NoError(t, n.Notify(context.Background(), ports.Notification{
		UserID: kernel.NewUUID(), OrderID: kernel.NewUUID(), Channel: ports.ChannelGeneral, Type: "order_paid",
	}))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "notifications", w.messages[0].Topic)
}

func TestNotifier_Notify_Errors(t *testing.T) {
	n := newTestNotifier(&recordingWriter{})
	err := n.Notify(context.Background(), ports.Notification{Channel: "sms"})
	require.Error(t, err)

	broken := newTestNotifier(&recordingWriter{err: errors.New("broker down")})
	err = broken.Notify(context.Background(), ports.Notification{
		UserID: kernel.NewUUID(), OrderID: kernel.NewUUID(), Channel: ports.ChannelGeneral,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNotifier_Close(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, newTestNotifier(w).Close())
	assert.True(t, w.closed)
}
