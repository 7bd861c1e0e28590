// Package notify fans order lifecycle events out to the notification service.
// Every event becomes a locker-channel notification and a mirrored
// general-channel one whose type carries the "locker_" prefix, for each
// recipient. Delivery failures are logged and never returned.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"
)

// Event types.
const (
	TypeReservationCreated = "reservation_created"
	TypePaymentReceived    = "payment_received"
	TypePickupScheduled    = "pickup_scheduled"
	TypeRiderPickedUp      = "rider_picked_up"
	TypeReadyForPickup     = "ready_for_pickup"
	TypeOrderCollected     = "order_collected"
	TypeOrderCancelled     = "order_cancelled"
	TypeReservationExpired = "reservation_expired"
	TypePinExpired         = "pin_expired"

	generalTypePrefix = "locker_"
)

// Event is one lifecycle fact to tell users about.
type Event struct {
	Type    string
	OrderID kernel.UUID
	Title   string
	Message string
}

type Dispatcher struct {
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewDispatcher(notifier ports.Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   logger.With("component", "notify-dispatcher"),
	}
}

// Send delivers the event to every recipient on both channels.
func (d *Dispatcher) Send(ctx context.Context, e Event, recipients ...kernel.UUID) {
	for _, userID := range recipients {
		d.send(ctx, userID, e, ports.ChannelLocker, e.Type)
		d.send(ctx, userID, e, ports.ChannelGeneral, generalTypePrefix+e.Type)
	}
}

func (d *Dispatcher) send(ctx context.Context, userID kernel.UUID, e Event, channel, typ string) {
	n := ports.Notification{
		UserID:         userID,
		OrderID:        e.OrderID,
		Channel:        channel,
		Type:           typ,
		Title:          e.Title,
		Message:        e.Message,
		IdempotencyKey: IdempotencyKey(e.OrderID, typ, channel, userID),
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Error("failed to send notification",
			"order_id", e.OrderID.String(),
			"user_id", userID.String(),
			"type", typ,
			"channel", channel,
			"error", err)
	}
}

// IdempotencyKey identifies one notification across redeliveries.
func IdempotencyKey(orderID kernel.UUID, typ, channel string, userID kernel.UUID) string {
	return fmt.Sprintf("%s:%s:%s:%s", orderID, typ, channel, userID)
}
