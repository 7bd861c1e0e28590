package ports

import (
	"context"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/locker"
)

// LockerRepository defines the persistence contract for locker aggregates
// together with their compartments.
type LockerRepository interface {
	Add(ctx context.Context, aggregate *locker.Locker) error
	Update(ctx context.Context, aggregate *locker.Locker) error
	Get(ctx context.Context, id kernel.UUID) (*locker.Locker, error)

	// GetForUpdate loads the locker and holds a row lock on it until the
	// surrounding transaction ends. Every compartment-count mutation must go
	// through it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*locker.Locker, error)
}
