package commands

import (
	"errors"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"
	"lockers/internal/pkg/guard"
)

var ErrSetPickupTimeCommandIsNotConstructed = errors.New(
	"SetPickupTimeCommand must be created via NewSetPickupTimeCommand constructor",
)

// SetPickupTimeCommand records when the seller expects the rider.
type SetPickupTimeCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	sellerID   kernel.UUID
	pickupTime time.Time

	guard guard.ConstructorGuard
}

func NewSetPickupTimeCommand(orderID, sellerID kernel.UUID, pickupTime time.Time) (SetPickupTimeCommand, error) {
	errList := []error{orderID.Validate(), sellerID.Validate()}
	if pickupTime.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("pickupTime"))
	}
	if err := errors.Join(errList...); err != nil {
		return SetPickupTimeCommand{}, err
	}

	return SetPickupTimeCommand{
		orderID:    orderID,
		sellerID:   sellerID,
		pickupTime: pickupTime,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SetPickupTimeCommand) Validate() error {
	return c.guard.Validate(ErrSetPickupTimeCommandIsNotConstructed)
}

func (c SetPickupTimeCommand) OrderID() kernel.UUID { return c.orderID }
func (c SetPickupTimeCommand) SellerID() kernel.UUID { return c.sellerID }
func (c SetPickupTimeCommand) PickupTime() time.Time { return c.pickupTime }
