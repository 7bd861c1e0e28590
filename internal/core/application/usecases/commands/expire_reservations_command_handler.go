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

// ExpireReservationsCommandHandler sweeps unpaid orders past their payment
// deadline. Each order is cancelled in its own transaction: a failure is
// logged and the sweep moves on. Orders that left PendingPayment since the
// listing query are skipped, so running the sweep twice cancels nothing new.
type ExpireReservationsCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	events     EventSender
	logger     *slog.Logger
}

func NewExpireReservationsCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	events EventSender,
	logger *slog.Logger,
) ExpireReservationsCommandHandler {
	return ExpireReservationsCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		events:     events,
		logger:     logger.With("component", "expire-reservations"),
	}
}

// Handle returns the number of orders cancelled.
func (h ExpireReservationsCommandHandler) Handle(ctx context.Context, cmd ExpireReservationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.clock.Now()
	ids, err := listOrderIDs(ctx, h.uowFactory, func(repo ports.OrderRepository) ([]kernel.UUID, error) {
		return repo.ListPaymentExpired(ctx, now)
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
			Type:    notify.TypeReservationExpired,
			OrderID: o.ID(),
			Title:   "Reservation expired",
			Message: "The order was cancelled because payment was not completed in time.",
		}, o.BuyerID(), o.SellerID())
		return true, nil
	}), nil
}

func (h ExpireReservationsCommandHandler) expire(ctx context.Context, id kernel.UUID, now time.Time) (*order.Order, error) {
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
	release, err := o.CancelUnpaid(now)
	if errors.Is(err, order.ErrInvalidStatusTransition) || errors.Is(err, order.ErrPaymentDeadlineNotReached) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err = releaseReservation(ctx, uow, o, release, true); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// listOrderIDs runs a read-only query in its own short transaction.
func listOrderIDs(
	ctx context.Context,
	uowFactory UoWFactory,
	query func(repo ports.OrderRepository) ([]kernel.UUID, error),
) ([]kernel.UUID, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ids, err := query(uow.OrderRepository())
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// sweep applies process to every id and counts the ones it handled. Errors are
// logged per order and never stop the loop.
func sweep(
	ctx context.Context,
	logger *slog.Logger,
	ids []kernel.UUID,
	process func(ctx context.Context, id kernel.UUID) (bool, error),
) int {
	processed := 0
	for i, id := range ids {
		if ctx.Err() != nil {
			logger.Warn("sweep interrupted", "remaining", len(ids)-i, "error", ctx.Err())
			break
		}

		done, err := process(ctx, id)
		if err != nil {
			logger.Error("failed to process order", "order_id", id.String(), "error", err)
			continue
		}
		if done {
			processed++
		}
	}

	if processed > 0 {
		logger.Info("sweep finished", "matched", len(ids), "processed", processed)
	}
	return processed
}
