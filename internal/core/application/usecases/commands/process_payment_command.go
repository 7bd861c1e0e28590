package commands

import (
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/guard"
)

var ErrProcessPaymentCommandIsNotConstructed = errors.New(
	"ProcessPaymentCommand must be created via NewProcessPaymentCommand constructor",
)

// ProcessPaymentCommand records that the buyer paid for the order.
type ProcessPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	buyerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewProcessPaymentCommand(orderID, buyerID kernel.UUID) (ProcessPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), buyerID.Validate()); err != nil {
		return ProcessPaymentCommand{}, err
	}

	return ProcessPaymentCommand{orderID: orderID, buyerID: buyerID, guard: guard.NewConstructorGuard()}, nil
}

func (c ProcessPaymentCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentCommandIsNotConstructed)
}

func (c ProcessPaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c ProcessPaymentCommand) BuyerID() kernel.UUID { return c.buyerID }
