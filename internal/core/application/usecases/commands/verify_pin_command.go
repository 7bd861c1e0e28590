package commands

import (
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"
	"lockers/internal/pkg/guard"
)

var ErrVerifyPinCommandIsNotConstructed = errors.New(
	"VerifyPinCommand must be created via NewVerifyPinCommand constructor",
)

// VerifyPinCommand is the buyer presenting the pickup PIN at the locker.
type VerifyPinCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	buyerID kernel.UUID
	pin     string

	guard guard.ConstructorGuard
}

// NewVerifyPinCommand only requires a non-empty PIN; the format is checked
// against the stored PIN so a malformed value counts as a wrong attempt.
func NewVerifyPinCommand(orderID, buyerID kernel.UUID, pin string) (VerifyPinCommand, error) {
	errList := []error{orderID.Validate(), buyerID.Validate()}
	if pin == "" {
		errList = append(errList, errs.NewValueIsRequiredError("pin"))
	}
	if err := errors.Join(errList...); err != nil {
		return VerifyPinCommand{}, err
	}

	return VerifyPinCommand{orderID: orderID, buyerID: buyerID, pin: pin, guard: guard.NewConstructorGuard()}, nil
}

func (c VerifyPinCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPinCommandIsNotConstructed)
}

func (c VerifyPinCommand) OrderID() kernel.UUID { return c.orderID }
func (c VerifyPinCommand) BuyerID() kernel.UUID { return c.buyerID }
func (c VerifyPinCommand) Pin() string { return c.pin }
