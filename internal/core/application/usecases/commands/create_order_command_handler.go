package commands

import (
	"context"
	"fmt"
	"time"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/core/domain/services"
)

// CreateOrderCommandHandler reserves the listing and one locker compartment and
// inserts the order in PendingPayment, all in one transaction. The listing and
// the locker rows are locked so two buyers racing for the last compartment
// cannot both succeed.
type CreateOrderCommandHandler struct {
	uowFactory    UoWFactory
	feePolicy     services.DeliveryFeePolicy
	clock         kernel.Clock
	paymentWindow time.Duration
	events        EventSender
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	feePolicy services.DeliveryFeePolicy,
	clock kernel.Clock,
	paymentWindow time.Duration,
	events EventSender,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:    uowFactory,
		feePolicy:     feePolicy,
		clock:         clock,
		paymentWindow: paymentWindow,
		events:        events,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	lst, err := uow.ListingRepository().GetForUpdate(ctx, cmd.ListingID())
	if err != nil {
		return err
	}
	lck, err := uow.LockerRepository().GetForUpdate(ctx, cmd.LockerID())
	if err != nil {
		return err
	}

	if err = lst.Reserve(cmd.BuyerID()); err != nil {
		return err
	}
	if err = lck.Reserve(); err != nil {
		return err
	}

	fee, err := h.feePolicy.Fee(lck, lst)
	if err != nil {
		return fmt.Errorf("compute delivery fee: %w", err)
	}

	o, err := order.NewOrder(
		cmd.OrderID(), lst.ID(), lck.ID(), cmd.BuyerID(), lst.SellerID(),
		lst.Price(), fee, h.clock.Now(), h.paymentWindow,
	)
	if err != nil {
		return err
	}

	if err = uow.ListingRepository().Update(ctx, lst); err != nil {
		return err
	}
	if err = uow.LockerRepository().Update(ctx, lck); err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.Send(ctx, notify.Event{
		Type:    notify.TypeReservationCreated,
		OrderID: o.ID(),
		Title:   "Item reserved",
		Message: fmt.Sprintf("%q is reserved at %s. Pay %s before %s.",
			lst.Title(), lck.Name(), o.TotalPrice().StringFixed(2), o.PaymentDeadline().Format(time.RFC3339)),
	}, o.BuyerID())

	return nil
}
