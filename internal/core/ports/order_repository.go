// Package ports defines the contracts between the locker order engine and its
// infrastructure: repositories, the unit of work, and the external
// collaborators (notifications, points, delivery timers, PIN attempt limiting).
package ports

import (
	"context"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a transitioned order. Implementations must write
	// conditionally on the previous version (aggregate.Version()-1) and return
	// an errs.ConcurrentModificationError when no row matched.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id or returns an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListPaymentExpired returns unpaid orders whose payment deadline is before now.
	ListPaymentExpired(ctx context.Context, now time.Time) ([]kernel.UUID, error)

	// ListPinExpired returns ready-for-pickup orders whose PIN expired before now.
	ListPinExpired(ctx context.Context, now time.Time) ([]kernel.UUID, error)

	// ListInTransit returns every order currently travelling to its locker.
	ListInTransit(ctx context.Context) ([]kernel.UUID, error)

	// HasLiveOrderForListing reports whether an order other than exceptID is
	// still between PendingPayment and ReadyForPickup for the listing.
	HasLiveOrderForListing(ctx context.Context, listingID, exceptID kernel.UUID) (bool, error)
}
