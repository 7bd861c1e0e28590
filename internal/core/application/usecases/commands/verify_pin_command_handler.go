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

	"github.com/shopspring/decimal"
)

// ErrTooManyPinAttempts is returned once an order has used up its PIN attempt budget.
var ErrTooManyPinAttempts = errors.New("too many pin attempts")

const minAttemptWindow = time.Minute

// VerifyPinResult reports the points credited after a successful collection.
type VerifyPinResult struct {
	// PointsAwarded is what the seller received for the sale.
	PointsAwarded int
	// BuyerPointsAwarded is the CO2 credit given to the buyer, zero when the
	// listing recorded no saving.
	BuyerPointsAwarded int
}

// VerifyPinCommandHandler completes a collection. Inside one transaction it
// checks the PIN, marks the listing sold and releases the compartment. The
// order write is conditional on its version, so of two simultaneous correct
// attempts exactly one commits. Points are awarded only after the commit.
type VerifyPinCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	limiter    ports.PinAttemptLimiter
	points     ports.PointsAwarder
	events     EventSender
	logger     *slog.Logger
}

func NewVerifyPinCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	limiter ports.PinAttemptLimiter,
	points ports.PointsAwarder,
	events EventSender,
	logger *slog.Logger,
) VerifyPinCommandHandler {
	return VerifyPinCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		limiter:    limiter,
		points:     points,
		events:     events,
		logger:     logger.With("component", "verify-pin"),
	}
}

func (h VerifyPinCommandHandler) Handle(ctx context.Context, cmd VerifyPinCommand) (VerifyPinResult, error) {
	if err := cmd.Validate(); err != nil {
		return VerifyPinResult{}, err
	}

	o, co2, err := h.collect(ctx, cmd)
	if err != nil {
		return VerifyPinResult{}, err
	}

	if resetErr := h.limiter.Reset(ctx, o.ID()); resetErr != nil {
		h.logger.Warn("failed to reset pin attempts", "order_id", o.ID().String(), "error", resetErr)
	}

	result := VerifyPinResult{
		PointsAwarded: h.award(ctx, ports.PointsAward{
			UserID: o.SellerID(), OrderID: o.ID(), Action: ports.ActionSold, Quantity: 1, CO2Kg: co2,
		}),
	}
	if co2 != nil {
		result.BuyerPointsAwarded = h.award(ctx, ports.PointsAward{
			UserID: o.BuyerID(), OrderID: o.ID(), Action: ports.ActionBought, Quantity: 1, CO2Kg: co2,
		})
	}

	h.events.Send(ctx, notify.Event{
		Type:    notify.TypeOrderCollected,
		OrderID: o.ID(),
		Title:   "Order collected",
		Message: "The item has been collected from the locker.",
	}, o.BuyerID(), o.SellerID())

	return result, nil
}

// collect runs the transaction. Every submission by the buyer is counted
// before the PIN is compared.
func (h VerifyPinCommandHandler) collect(
	ctx context.Context,
	cmd VerifyPinCommand,
) (*order.Order, *decimal.Decimal, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}
	if o.BuyerID().IsEqual(cmd.BuyerID()) {
		if err = h.countAttempt(ctx, o); err != nil {
			return nil, nil, err
		}
	}
	release, err := o.Collect(cmd.BuyerID(), cmd.Pin(), h.clock.Now())
	if err != nil {
		return nil, nil, err
	}

	lst, err := uow.ListingRepository().GetForUpdate(ctx, o.ListingID())
	if err != nil {
		return nil, nil, err
	}
	if err = lst.MarkSold(o.BuyerID()); err != nil {
		return nil, nil, err
	}
	if err = uow.ListingRepository().Update(ctx, lst); err != nil {
		return nil, nil, err
	}

	if release {
		lck, lockErr := uow.LockerRepository().GetForUpdate(ctx, o.LockerID())
		if lockErr != nil {
			return nil, nil, lockErr
		}
		if err = lck.Release(o.ID()); err != nil {
			return nil, nil, err
		}
		if err = uow.LockerRepository().Update(ctx, lck); err != nil {
			return nil, nil, err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	var co2 *decimal.Decimal
	if saved, ok := lst.CO2Saved(); ok {
		co2 = &saved
	}
	return o, co2, nil
}

// countAttempt spends one attempt of the order's budget. The counter lives as
// long as the PIN, and at least minAttemptWindow. An unreachable limiter
// lets the attempt through.
func (h VerifyPinCommandHandler) countAttempt(ctx context.Context, o *order.Order) error {
	ttl := minAttemptWindow
	if o.ExpiresAt() != nil {
		if remaining := o.ExpiresAt().Sub(h.clock.Now()); remaining > ttl {
			ttl = remaining
		}
	}

	allowed, err := h.limiter.Attempt(ctx, o.ID(), ttl)
	if err != nil {
		h.logger.Warn("pin attempt limiter unavailable", "order_id", o.ID().String(), "error", err)
		return nil
	}
	if !allowed {
		return ErrTooManyPinAttempts
	}
	return nil
}

func (h VerifyPinCommandHandler) award(ctx context.Context, award ports.PointsAward) int {
	points, err := h.points.Award(ctx, award)
	if err != nil {
		h.logger.Error("failed to award points",
			"order_id", award.OrderID.String(),
			"user_id", award.UserID.String(),
			"action", award.Action,
			"error", err)
		return 0
	}
	return points
}
