package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
)

// CompleteDeliveryCommandHandler places an in-transit order in its compartment
// and issues the pickup PIN. Orders in any other status are skipped, so a
// timer firing after a cancellation, or twice after a requeue, changes nothing.
type CompleteDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	pinTTL     time.Duration
	events     EventSender
	logger     *slog.Logger
}

func NewCompleteDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	pinTTL time.Duration,
	events EventSender,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		pinTTL:     pinTTL,
		events:     events,
		logger:     logger.With("component", "complete-delivery"),
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.InTransit {
		h.logger.Info("delivery skipped, order is not in transit",
			"order_id", o.ID().String(), "status", o.Status().String())
		return nil
	}

	pin, err := order.NewRandomPin()
	if err != nil {
		return err
	}
	if err = o.Deliver(pin, h.clock.Now(), h.pinTTL); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	number, _ := o.CompartmentNumber()
	h.events.Send(ctx, notify.Event{
		Type:    notify.TypeReadyForPickup,
		OrderID: o.ID(),
		Title:   "Ready for pickup",
		Message: fmt.Sprintf("Your item is in compartment %d. Your pickup PIN is %s, valid until %s.",
			number, pin, o.ExpiresAt().Format(time.RFC3339)),
	}, o.BuyerID())

	return nil
}
