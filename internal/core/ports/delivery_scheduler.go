package ports

import "lockers/internal/core/domain/model/kernel"

// DeliveryScheduler arms and disarms the one-shot timers that complete a
// simulated courier delivery. Timers are in-memory only.
type DeliveryScheduler interface {
	// Schedule arms a timer for the order, replacing any existing one.
	Schedule(orderID kernel.UUID)

	// Cancel disarms the order's timer if there is one.
	Cancel(orderID kernel.UUID)
}
