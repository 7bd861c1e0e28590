package commands

import (
	"context"
	"fmt"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"
)

// ConfirmRiderPickupCommandHandler assigns the lowest free compartment of the
// order's locker, puts the order in transit and, once committed, arms the
// simulated delivery timer.
//
// Example:
//
//	cmd, _ := NewConfirmRiderPickupCommand(orderID, sellerID)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	// the scheduler will complete the delivery after a random delay
type ConfirmRiderPickupCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	scheduler  ports.DeliveryScheduler
	events     EventSender
}

func NewConfirmRiderPickupCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	scheduler ports.DeliveryScheduler,
	events EventSender,
) ConfirmRiderPickupCommandHandler {
	return ConfirmRiderPickupCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		scheduler:  scheduler,
		events:     events,
	}
}

func (h ConfirmRiderPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmRiderPickupCommand) error {
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
	if err = o.ValidateHandToRider(cmd.SellerID()); err != nil {
		return err
	}

	lck, err := uow.LockerRepository().GetForUpdate(ctx, o.LockerID())
	if err != nil {
		return err
	}
	number, err := lck.Occupy(o.ID())
	if err != nil {
		return err
	}
	if err = o.HandToRider(cmd.SellerID(), number, h.clock.Now()); err != nil {
		return err
	}

	if err = uow.LockerRepository().Update(ctx, lck); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.scheduler.Schedule(o.ID())
	h.events.Send(ctx, notify.Event{
		Type:    notify.TypeRiderPickedUp,
		OrderID: o.ID(),
		Title:   "On its way",
		Message: fmt.Sprintf("A rider is bringing your item to %s, compartment %d.", lck.Name(), number),
	}, o.BuyerID())

	return nil
}
