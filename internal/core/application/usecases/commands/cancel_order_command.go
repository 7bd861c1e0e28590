package commands

import (
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand is sent by either party of the order.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand requires a reason of 1 to 500 characters.
func NewCancelOrderCommand(orderID, userID kernel.UUID, reason string) (CancelOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		userID.Validate(),
		order.ValidateCancelReason(reason),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{orderID: orderID, userID: userID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) UserID() kernel.UUID { return c.userID }
func (c CancelOrderCommand) Reason() string { return c.reason }
