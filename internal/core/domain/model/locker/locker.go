package locker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"
	"lockers/internal/pkg/guard"
)

// Domain errors for locker operations.
var (
	// ErrNameIsRequired is returned when creating a locker without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrLockerIsInactive is returned when reserving at a deactivated station.
	ErrLockerIsInactive = errors.New("locker is not active")
	// ErrNoCompartmentAvailable is returned when every compartment is already reserved.
	ErrNoCompartmentAvailable = errors.New("no compartment available")
	// ErrAllCompartmentsFree is returned when releasing a reservation that was never made.
	ErrAllCompartmentsFree = errors.New("all compartments are already free")
	// ErrLockerIsNotConstructed is returned when using an improperly initialized Locker.
	ErrLockerIsNotConstructed = errors.New("Locker must be created via NewLocker constructor")
)

// Locker is a physical pickup station with a fixed set of numbered compartments.
// It is an aggregate root that keeps two counts consistent:
//
//   - availableCompartments: compartments not reserved by any live order.
//     Reserve decrements it when an order is created; Release increments it
//     when that order reaches a terminal status.
//   - occupied compartments: compartments physically holding an item. An order
//     occupies one when the rider takes the item, which can only happen for an
//     order that already holds a reservation.
//
// Business rules:
//   - 0 <= availableCompartments <= totalCompartments at all times
//   - occupied compartments never exceed reserved ones (total - available)
//   - inactive lockers accept no new reservations but still serve live orders
//
// Example usage:
//
//	loc, _ := kernel.NewCoordinates(52.52, 13.405)
//	l, err := locker.NewLocker(kernel.NewUUID(), "Alexanderplatz", "Alexanderplatz 1", loc, 12)
//	if err != nil {
//	    return err
//	}
//	if err = l.Reserve(); err != nil {
//	    return err // ErrNoCompartmentAvailable when the station is full
//	}
type Locker struct {
	id      kernel.UUID
	name    string
	address string
	// location is optional; the zero value means the station was registered without coordinates
	location kernel.Coordinates

	totalCompartments     int
	availableCompartments int
	active                bool

	// compartments are kept sorted by number
	compartments []*Compartment

	guard guard.ConstructorGuard
}

// NewLocker creates an active locker with totalCompartments empty compartments
// numbered from 1.
//
// Parameters:
//   - id: Unique identifier (must be valid UUID)
//   - name: Display name (must be non-empty)
//   - address: Street address shown to buyers
//   - location: Station coordinates, may be the zero value when unknown
//   - totalCompartments: Number of doors (must be positive)
//
// Returns:
//   - *Locker: Fully available locker
//   - error: Aggregated validation errors, if any
func NewLocker(
	id kernel.UUID,
	name, address string,
	location kernel.Coordinates,
	totalCompartments int,
) (*Locker, error) {
	l := &Locker{
		address:  address,
		location: location,
		active:   true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(l.setID(id), l.setName(name), l.setTotalCompartments(totalCompartments)); err != nil {
		return nil, err
	}

	l.compartments = make([]*Compartment, 0, totalCompartments)
	for n := 1; n <= totalCompartments; n++ {
		c, err := NewCompartment(kernel.NewUUID(), n)
		if err != nil {
			return nil, err
		}
		l.compartments = append(l.compartments, c)
	}
	l.availableCompartments = totalCompartments

	return l, nil
}

// RestoreLocker reconstructs a Locker aggregate from persistent storage and
// re-checks the counting invariants.
//
// Business Rules:
//   - compartments must be numbered 1..totalCompartments without gaps
//   - availableCompartments must be within [0, totalCompartments]
//   - occupied compartments must not exceed reserved ones
func RestoreLocker(
	id kernel.UUID,
	name, address string,
	location kernel.Coordinates,
	totalCompartments, availableCompartments int,
	active bool,
	compartments []*Compartment,
) (*Locker, error) {
	l := &Locker{
		address:  address,
		location: location,
		active:   active,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setName(name),
		l.setTotalCompartments(totalCompartments),
	); err != nil {
		return nil, err
	}
	if err := l.setCompartments(compartments, availableCompartments); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Locker) ID() kernel.UUID { return l.id }
func (l *Locker) Name() string { return l.name }
func (l *Locker) Address() string { return l.address }
func (l *Locker) Location() kernel.Coordinates { return l.location }
func (l *Locker) TotalCompartments() int { return l.totalCompartments }
func (l *Locker) AvailableCompartments() int { return l.availableCompartments }
func (l *Locker) IsActive() bool { return l.active }
func (l *Locker) Compartments() []*Compartment { return append([]*Compartment(nil), l.compartments...) }
func (l *Locker) HasLocation() bool { return l.location.Validate() == nil }
func (l *Locker) IsEqual(other *Locker) bool { return other != nil && l.id.IsEqual(other.id) }

// OccupiedCompartments counts compartments that physically hold an item.
func (l *Locker) OccupiedCompartments() int {
	n := 0
	for _, c := range l.compartments {
		if c.IsOccupied() {
			n++
		}
	}
	return n
}

// Reserve takes one compartment out of the available pool for a new order.
func (l *Locker) Reserve() error {
	if !l.active {
		return ErrLockerIsInactive
	}
	if l.availableCompartments <= 0 {
		return ErrNoCompartmentAvailable
	}

	l.availableCompartments--
	return nil
}

// Release returns a reservation to the pool and vacates the compartment the
// order's item was stored in, if any.
func (l *Locker) Release(orderID kernel.UUID) error {
	if l.availableCompartments >= l.totalCompartments {
		return ErrAllCompartmentsFree
	}

	l.Vacate(orderID)
	l.availableCompartments++
	return nil
}

// Vacate empties the compartment holding the order's item and reports whether
// there was one.
func (l *Locker) Vacate(orderID kernel.UUID) bool {
	c := l.compartmentOf(orderID)
	if c == nil {
		return false
	}
	c.vacate()
	return true
}

// Occupy assigns the lowest-numbered empty compartment to a reserved order and
// returns its number. Calling it again for the same order returns the same number.
func (l *Locker) Occupy(orderID kernel.UUID) (int, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}
	if c := l.compartmentOf(orderID); c != nil {
		return c.Number(), nil
	}
	if l.OccupiedCompartments() >= l.totalCompartments-l.availableCompartments {
		return 0, ErrNoCompartmentAvailable
	}

	for _, c := range l.compartments {
		if c.IsOccupied() {
			continue
		}
		if err := c.occupy(orderID); err != nil {
			return 0, err
		}
		return c.Number(), nil
	}
	return 0, ErrNoCompartmentAvailable
}

// CompartmentOf returns the number of the compartment holding the order's item.
func (l *Locker) CompartmentOf(orderID kernel.UUID) (int, bool) {
	c := l.compartmentOf(orderID)
	if c == nil {
		return 0, false
	}
	return c.Number(), true
}

// Deactivate stops new reservations. Live orders keep their compartments.
func (l *Locker) Deactivate() {
	l.active = false
}

func (l *Locker) Activate() {
	l.active = true
}

// Validate checks that the Locker was created through a constructor.
func (l *Locker) Validate() error {
	if l == nil {
		return ErrLockerIsNotConstructed
	}
	return l.guard.Validate(ErrLockerIsNotConstructed)
}

func (l *Locker) String() string {
	return fmt.Sprintf("Locker(%s, %q, %d/%d available)", l.id, l.name, l.availableCompartments, l.totalCompartments)
}

func (l *Locker) compartmentOf(orderID kernel.UUID) *Compartment {
	for _, c := range l.compartments {
		if c.Holds(orderID) {
			return c
		}
	}
	return nil
}

func (l *Locker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	l.id = id
	return nil
}

func (l *Locker) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	l.name = name
	return nil
}

func (l *Locker) setTotalCompartments(total int) error {
	if total <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"totalCompartments is invalid",
			fmt.Errorf("%d is not greater than 0", total),
		)
	}

	l.totalCompartments = total
	return nil
}

func (l *Locker) setCompartments(compartments []*Compartment, available int) error {
	if available < 0 || available > l.totalCompartments {
		return errs.NewValueIsOutOfRangeError("availableCompartments", available, 0, l.totalCompartments)
	}
	if len(compartments) != l.totalCompartments {
		return errs.NewValueIsInvalidErrorWithCause(
			"compartments are invalid",
			fmt.Errorf("got %d compartments, want %d", len(compartments), l.totalCompartments),
		)
	}

	sorted := append([]*Compartment(nil), compartments...)
	for _, c := range sorted {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number() < sorted[j].Number() })

	occupied := 0
	for i, c := range sorted {
		if c.Number() != i+1 {
			return errs.NewValueIsInvalidErrorWithCause(
				"compartments are invalid",
				fmt.Errorf("compartment %d found at position %d", c.Number(), i+1),
			)
		}
		if c.IsOccupied() {
			occupied++
		}
	}
	if occupied > l.totalCompartments-available {
		return errs.NewValueIsInvalidErrorWithCause(
			"compartments are invalid",
			fmt.Errorf("%d occupied but only %d reserved", occupied, l.totalCompartments-available),
		)
	}

	l.compartments = sorted
	l.availableCompartments = available
	return nil
}
