package order

import (
	"errors"
	"fmt"

	"lockers/internal/pkg/errs"
)

// ErrInvalidStatusTransition is the cause carried by every rejected transition.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// Status is the lifecycle state of a locker order.
//
// State transitions:
//
//	PendingPayment ──> Paid ──┬──> PickupScheduled ──┐
//	                          └───────────────────────┴──> InTransit ──> ReadyForPickup ──> Collected
//
//	any non-terminal ──> Cancelled
//	ReadyForPickup   ──> Expired
//
// Collected, Cancelled and Expired are terminal.
type Status int

const (
	// Unknown (0) catches uninitialised values.
	Unknown Status = iota
	PendingPayment
	Paid
	PickupScheduled
	InTransit
	ReadyForPickup
	Collected
	Cancelled
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "unknown",
		PendingPayment:  "pending_payment",
		Paid:            "paid",
		PickupScheduled: "pickup_scheduled",
		InTransit:       "in_transit",
		ReadyForPickup:  "ready_for_pickup",
		Collected:       "collected",
		Cancelled:       "cancelled",
		Expired:         "expired",
	}
}

// ParseStatus converts the persisted name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", s))
}

// Validate accepts every status except Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Expired {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Collected || s == Cancelled || s == Expired
}

// HoldsCompartment reports whether an order in this status may still own a
// reserved compartment. Only statuses from PendingPayment through
// ReadyForPickup qualify.
func (s Status) HoldsCompartment() bool {
	return s >= PendingPayment && s <= ReadyForPickup
}

// Pay moves PendingPayment to Paid.
func (s Status) Pay() (Status, error) {
	if s != PendingPayment {
		return 0, s.transitionError(Paid)
	}
	return Paid, nil
}

// SchedulePickup moves Paid to PickupScheduled.
func (s Status) SchedulePickup() (Status, error) {
	if s != Paid {
		return 0, s.transitionError(PickupScheduled)
	}
	return PickupScheduled, nil
}

// HandToRider moves Paid or PickupScheduled to InTransit; scheduling a pickup
// time first is optional.
func (s Status) HandToRider() (Status, error) {
	if s != Paid && s != PickupScheduled {
		return 0, s.transitionError(InTransit)
	}
	return InTransit, nil
}

// Deliver moves InTransit to ReadyForPickup.
func (s Status) Deliver() (Status, error) {
	if s != InTransit {
		return 0, s.transitionError(ReadyForPickup)
	}
	return ReadyForPickup, nil
}

// Collect moves ReadyForPickup to Collected.
func (s Status) Collect() (Status, error) {
	if s != ReadyForPickup {
		return 0, s.transitionError(Collected)
	}
	return Collected, nil
}

// Cancel moves any non-terminal status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() || s.Validate() != nil {
		return 0, s.transitionError(Cancelled)
	}
	return Cancelled, nil
}

// Expire moves ReadyForPickup to Expired.
func (s Status) Expire() (Status, error) {
	if s != ReadyForPickup {
		return 0, s.transitionError(Expired)
	}
	return Expired, nil
}

func (s Status) transitionError(target Status) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, target),
	)
}
