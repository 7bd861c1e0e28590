package ports

import (
	"context"

	"lockers/internal/core/domain/model/kernel"
)

// Notification channels.
const (
	ChannelLocker  = "locker"
	ChannelGeneral = "general"
)

// Notification is one message for one user on one channel.
type Notification struct {
	UserID  kernel.UUID
	OrderID kernel.UUID
	Channel string
	Type    string
	Title   string
	Message string

	// IdempotencyKey lets consumers drop redeliveries:
	// "<orderId>:<type>:<channel>:<userId>".
	IdempotencyKey string
}

// Notifier delivers notifications to the external notification service.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
