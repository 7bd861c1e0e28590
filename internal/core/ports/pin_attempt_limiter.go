package ports

import (
	"context"
	"time"

	"lockers/internal/core/domain/model/kernel"
)

// PinAttemptLimiter budgets PIN submissions per order.
type PinAttemptLimiter interface {
	// Attempt counts one submission and reports whether it is still within
	// the budget. Counting and checking are one atomic step, so concurrent
	// submissions cannot overrun the budget. The counter lives for ttl.
	Attempt(ctx context.Context, orderID kernel.UUID, ttl time.Duration) (bool, error)

	// Reset forgets the order's attempts.
	Reset(ctx context.Context, orderID kernel.UUID) error
}
