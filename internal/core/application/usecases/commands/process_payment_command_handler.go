package commands

import (
	"context"
	"fmt"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
)

// ProcessPaymentCommandHandler moves an order from PendingPayment to Paid as
// long as the payment deadline has not passed, then tells the seller.
type ProcessPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	events     EventSender
}

func NewProcessPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	events EventSender,
) ProcessPaymentCommandHandler {
	return ProcessPaymentCommandHandler{uowFactory: uowFactory, clock: clock, events: events}
}

func (h ProcessPaymentCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) error {
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
	if err = o.Pay(cmd.BuyerID(), h.clock.Now()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.Send(ctx, notify.Event{
		Type:    notify.TypePaymentReceived,
		OrderID: o.ID(),
		Title:   "Payment received",
		Message: fmt.Sprintf("The buyer paid %s. Please schedule the pickup.", o.TotalPrice().StringFixed(2)),
	}, o.SellerID())

	return nil
}
