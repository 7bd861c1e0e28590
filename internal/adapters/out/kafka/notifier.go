// Package kafka publishes user notifications to Kafka. Locker notifications
// and general notifications go to separate topics; every message is keyed by
// its idempotency key so redeliveries land on the same partition and can be
// dropped by the consumer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"lockers/internal/core/ports"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	producerName = "locker-orders"
	eventVersion = 1

	headerEventType    = "x-event-type"
	headerEventVersion = "x-event-version"
)

// Envelope is the JSON value of every published message.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NotificationPayload is the Envelope payload of a user notification.
type NotificationPayload struct {
	UserID         string `json:"user_id"`
	OrderID        string `json:"order_id"`
	Channel        string `json:"channel"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	IdempotencyKey string `json:"idempotency_key"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Topics maps notification channels to topic names.
type Topics struct {
	Locker  string
	General string
}

type Notifier struct {
	w      messageWriter
	topics Topics
	now    func() time.Time
}

// NewWriter returns an asynchronous writer without a default topic; the
// topic is set per message. Delivery failures are logged from the completion
// callback.
func NewWriter(brokers []string, logger *slog.Logger) *kafka.Writer {
	logger = logger.With("component", "kafka-notifier")
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range messages {
				logger.Error("failed to publish notification",
					"topic", m.Topic,
					"key", string(m.Key),
					"error", err)
			}
		},
	}
}

func NewNotifier(w messageWriter, topics Topics) *Notifier {
	return &Notifier{
		w:      w,
		topics: topics,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (n *Notifier) Notify(ctx context.Context, msg ports.Notification) error {
	topic, err := n.topicFor(msg.Channel)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(NotificationPayload{
		UserID:         msg.UserID.String(),
		OrderID:        msg.OrderID.String(),
		Channel:        msg.Channel,
		Type:           msg.Type,
		Title:          msg.Title,
		Message:        msg.Message,
		IdempotencyKey: msg.IdempotencyKey,
	})
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	value, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     msg.Type,
		EventVersion:  eventVersion,
		OccurredAt:    n.now(),
		Producer:      producerName,
		CorrelationID: msg.OrderID.String(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("marshal notification envelope: %w", err)
	}

	err = n.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(msg.IdempotencyKey),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(msg.Type)},
			{Key: headerEventVersion, Value: []byte(fmt.Sprint(eventVersion))},
		},
	})
	if err != nil {
		return fmt.Errorf("publish notification to %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending messages.
func (n *Notifier) Close() error {
	return n.w.Close()
}

func (n *Notifier) topicFor(channel string) (string, error) {
	switch channel {
	case ports.ChannelLocker:
		return n.topics.Locker, nil
	case ports.ChannelGeneral:
		return n.topics.General, nil
	default:
		return "", fmt.Errorf("unknown notification channel %q", channel)
	}
}
