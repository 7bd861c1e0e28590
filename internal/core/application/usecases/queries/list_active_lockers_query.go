package queries

import (
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/guard"
)

var ErrListActiveLockersQueryIsNotConstructed = errors.New(
	"ListActiveLockersQuery must be created via NewListActiveLockersQuery constructor",
)

// ListActiveLockersQuery lists the stations that accept new orders.
type ListActiveLockersQuery struct {
	guard guard.ConstructorGuard
}

func NewListActiveLockersQuery() ListActiveLockersQuery {
	return ListActiveLockersQuery{guard: guard.NewConstructorGuard()}
}

func (q ListActiveLockersQuery) Validate() error {
	return q.guard.Validate(ErrListActiveLockersQueryIsNotConstructed)
}

// ListActiveLockersQueryResponse describes one station. Location is nil when
// the station was registered without coordinates.
type ListActiveLockersQueryResponse struct {
	ID                    kernel.UUID
	Name                  string
	Address               string
	Location              *kernel.Coordinates
	TotalCompartments     int
	AvailableCompartments int
}
