package commands

import (
	"errors"

	"lockers/internal/pkg/guard"
)

var ErrExpireReservationsCommandIsNotConstructed = errors.New(
	"ExpireReservationsCommand must be created via NewExpireReservationsCommand constructor",
)

// ExpireReservationsCommand cancels every order whose payment window elapsed.
type ExpireReservationsCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireReservationsCommand() ExpireReservationsCommand {
	return ExpireReservationsCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpireReservationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireReservationsCommandIsNotConstructed)
}
