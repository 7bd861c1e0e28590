// Package lognotify writes notifications to the structured log. It is used
// when no Kafka brokers are configured.
package lognotify

import (
	"context"
	"log/slog"

	"lockers/internal/core/ports"
)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger.With("component", "log-notifier")}
}

func (n *Notifier) Notify(ctx context.Context, msg ports.Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"user_id", msg.UserID.String(),
		"order_id", msg.OrderID.String(),
		"channel", msg.Channel,
		"type", msg.Type,
		"title", msg.Title,
		"idempotency_key", msg.IdempotencyKey)
	return nil
}
