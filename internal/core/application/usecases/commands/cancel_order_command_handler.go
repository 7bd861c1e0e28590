package commands

import (
	"context"
	"fmt"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/core/ports"
)

// CancelOrderCommandHandler cancels a live order on behalf of the buyer or the
// seller. The listing goes back on sale, the compartment is released if the
// order still held one, and any pending delivery timer is disarmed.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	scheduler  ports.DeliveryScheduler
	events     EventSender
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	scheduler ports.DeliveryScheduler,
	events EventSender,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		scheduler:  scheduler,
		events:     events,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
	release, err := o.Cancel(cmd.UserID(), cmd.Reason(), h.clock.Now())
	if err != nil {
		return err
	}
	if err = releaseReservation(ctx, uow, o, release, true); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.scheduler.Cancel(o.ID())
	h.events.Send(ctx, notify.Event{
		Type:    notify.TypeOrderCancelled,
		OrderID: o.ID(),
		Title:   "Order cancelled",
		Message: fmt.Sprintf("The order was cancelled: %s", cmd.Reason()),
	}, o.Counterparty(cmd.UserID()))

	return nil
}

// releaseReservation persists a terminal order together with its side effects
// on the listing and the locker, locking them in the same order as
// CreateOrderCommandHandler. The listing stays reserved while another live
// order of the same buyer still holds it, and a sold listing is never touched.
func releaseReservation(ctx context.Context, uow UoW, o *order.Order, releaseCompartment, reopenListing bool) error {
	if reopenListing {
		if err := reopen(ctx, uow, o); err != nil {
			return err
		}
	}

	if releaseCompartment {
		lck, err := uow.LockerRepository().GetForUpdate(ctx, o.LockerID())
		if err != nil {
			return err
		}
		if err = lck.Release(o.ID()); err != nil {
			return err
		}
		if err = uow.LockerRepository().Update(ctx, lck); err != nil {
			return err
		}
	}

	return uow.OrderRepository().Update(ctx, o)
}

func reopen(ctx context.Context, uow UoW, o *order.Order) error {
	lst, err := uow.ListingRepository().GetForUpdate(ctx, o.ListingID())
	if err != nil {
		return err
	}

	held, err := uow.OrderRepository().HasLiveOrderForListing(ctx, o.ListingID(), o.ID())
	if err != nil {
		return err
	}
	if held || !lst.Release(o.BuyerID()) {
		return nil
	}
	return uow.ListingRepository().Update(ctx, lst)
}
