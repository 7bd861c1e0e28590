package commands

import (
	"context"
	"fmt"
	"time"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
)

type SetPickupTimeCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	events     EventSender
}

func NewSetPickupTimeCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	events EventSender,
) SetPickupTimeCommandHandler {
	return SetPickupTimeCommandHandler{uowFactory: uowFactory, clock: clock, events: events}
}

func (h SetPickupTimeCommandHandler) Handle(ctx context.Context, cmd SetPickupTimeCommand) error {
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
	if err = o.SchedulePickup(cmd.SellerID(), cmd.PickupTime(), h.clock.Now()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.Send(ctx, notify.Event{
		Type:    notify.TypePickupScheduled,
		OrderID: o.ID(),
		Title:   "Pickup scheduled",
		Message: fmt.Sprintf("The seller will hand your item to a rider at %s.", cmd.PickupTime().Format(time.RFC3339)),
	}, o.BuyerID())

	return nil
}
