package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/core/ports"
)

// ExpirePinsCommandHandler sweeps uncollected orders whose PIN has expired.
// The compartment is released but the listing stays reserved: the item is
// physically inside the locker and needs manual handling.
type ExpirePinsCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	events     EventSender
	logger     *slog.Logger
}

func NewExpirePinsCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	events EventSender,
	logger *slog.Logger,
) ExpirePinsCommandHandler {
	return ExpirePinsCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		events:     events,
		logger:     logger.With("component", "expire-pins"),
	}
}

// Handle returns the number of orders expired.
func (h ExpirePinsCommandHandler) Handle(ctx context.Context, cmd ExpirePinsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.clock.Now()
	ids, err := listOrderIDs(ctx, h.uowFactory, func(repo ports.OrderRepository) ([]kernel.UUID, error) {
		return repo.ListPinExpired(ctx, now)
	})
	if err != nil {
		return 0, err
	}

	return sweep(ctx, h.logger, ids, func(ctx context.Context, id kernel.UUID) (bool, error) {
		o, err := h.expire(ctx, id, now)
		if err != nil || o == nil {
			return false, err
		}

		h.events.Send(ctx, notify.Event{
			Type:    notify.TypePinExpired,
			OrderID: o.ID(),
			Title:   "Pickup PIN expired",
			Message: "The item was not collected in time. Support will contact you.",
		}, o.BuyerID(), o.SellerID())
		return true, nil
	}), nil
}

func (h ExpirePinsCommandHandler) expire(ctx context.Context, id kernel.UUID, now time.Time) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	release, err := o.Expire(now)
	if errors.Is(err, order.ErrInvalidStatusTransition) || errors.Is(err, order.ErrPinNotExpired) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err = releaseReservation(ctx, uow, o, release, false); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
