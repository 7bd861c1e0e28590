package commands

import (
	"errors"

	"lockers/internal/pkg/guard"
)

var ErrRequeuePendingDeliveriesCommandIsNotConstructed = errors.New(
	"RequeuePendingDeliveriesCommand must be created via NewRequeuePendingDeliveriesCommand constructor",
)

// RequeuePendingDeliveriesCommand re-arms delivery timers lost on restart.
type RequeuePendingDeliveriesCommand struct {
	guard guard.ConstructorGuard
}

func NewRequeuePendingDeliveriesCommand() RequeuePendingDeliveriesCommand {
	return RequeuePendingDeliveriesCommand{guard: guard.NewConstructorGuard()}
}

func (c RequeuePendingDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrRequeuePendingDeliveriesCommandIsNotConstructed)
}
