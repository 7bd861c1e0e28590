package commands

import (
	"errors"

	"lockers/internal/pkg/guard"
)

var ErrExpirePinsCommandIsNotConstructed = errors.New(
	"ExpirePinsCommand must be created via NewExpirePinsCommand constructor",
)

// ExpirePinsCommand expires every delivered order whose PIN lapsed.
type ExpirePinsCommand struct {
	guard guard.ConstructorGuard
}

func NewExpirePinsCommand() ExpirePinsCommand {
	return ExpirePinsCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpirePinsCommand) Validate() error {
	return c.guard.Validate(ErrExpirePinsCommandIsNotConstructed)
}
