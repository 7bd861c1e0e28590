// Package order implements the locker Order aggregate: a purchase that is
// reserved, paid, handed to a rider, placed in a locker compartment and finally
// collected by the buyer with a pickup PIN.
//
// The package includes:
//   - Order: the aggregate root owning prices, deadlines, the PIN and the
//     compartmentHeld flag
//   - Status: the lifecycle state machine
//   - Pin: the 6-digit pickup code
//
// Key business rules:
//   - only the buyer pays and collects, only the seller schedules and hands over
//   - payment is accepted up to and including the payment deadline
//   - a PIN is valid up to and including its expiry and must match exactly
//   - Collected, Cancelled and Expired are terminal
//   - the compartment reserved at creation is released exactly once
package order
