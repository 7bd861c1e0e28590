package commands

import (
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/guard"
)

var ErrConfirmRiderPickupCommandIsNotConstructed = errors.New(
	"ConfirmRiderPickupCommand must be created via NewConfirmRiderPickupCommand constructor",
)

// ConfirmRiderPickupCommand is sent by the seller once the rider has the item.
type ConfirmRiderPickupCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	sellerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmRiderPickupCommand(orderID, sellerID kernel.UUID) (ConfirmRiderPickupCommand, error) {
	if err := errors.Join(orderID.Validate(), sellerID.Validate()); err != nil {
		return ConfirmRiderPickupCommand{}, err
	}

	return ConfirmRiderPickupCommand{orderID: orderID, sellerID: sellerID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmRiderPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmRiderPickupCommandIsNotConstructed)
}

func (c ConfirmRiderPickupCommand) OrderID() kernel.UUID { return c.orderID }
func (c ConfirmRiderPickupCommand) SellerID() kernel.UUID { return c.sellerID }
