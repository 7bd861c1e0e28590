package commands

import (
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand reserves a listing and a locker compartment for a buyer.
// The caller chooses the order id so it can read the order back afterwards.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, listingID, lockerID, buyerID)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	listingID kernel.UUID
	lockerID  kernel.UUID
	buyerID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every identifier.
func NewCreateOrderCommand(orderID, listingID, lockerID, buyerID kernel.UUID) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		listingID.Validate(),
		lockerID.Validate(),
		buyerID.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:   orderID,
		listingID: listingID,
		lockerID:  lockerID,
		buyerID:   buyerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CreateOrderCommand) ListingID() kernel.UUID { return c.listingID }
func (c CreateOrderCommand) LockerID() kernel.UUID { return c.lockerID }
func (c CreateOrderCommand) BuyerID() kernel.UUID { return c.buyerID }
