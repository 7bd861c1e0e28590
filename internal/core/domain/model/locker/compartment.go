package locker

import (
	"errors"
	"fmt"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"
	"lockers/internal/pkg/guard"
)

var (
	// ErrCompartmentIsOccupied indicates that the compartment already holds another order's item.
	ErrCompartmentIsOccupied = errors.New("compartment is occupied")

	// ErrCompartmentIsNotConstructed indicates that the Compartment was not
	// initialized through NewCompartment or RestoreCompartment.
	ErrCompartmentIsNotConstructed = errors.New("Compartment must be created via NewCompartment constructor")
)

// Compartment is one numbered door of a locker station. It holds at most one
// order's item at a time.
//
// Business rules:
//   - Number is 1-based and unique within its locker
//   - Only the order stored in the compartment can vacate it
type Compartment struct {
	// id uniquely identifies the compartment
	id kernel.UUID

	// number is the door number printed on the locker, starting at 1
	number int

	// orderID points to the order whose item sits inside, nil if empty
	orderID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompartment creates an empty compartment with the given door number.
//
// Parameters:
//   - id: Unique identifier (must be valid UUID)
//   - number: Door number (must be at least 1)
//
// Returns:
//   - *Compartment: Empty compartment
//   - error: Aggregated validation errors, if any
func NewCompartment(id kernel.UUID, number int) (*Compartment, error) {
	c := &Compartment{guard: guard.NewConstructorGuard()}

	if err := errors.Join(c.setID(id), c.setNumber(number)); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCompartment reconstructs a Compartment from persistent storage,
// including the order currently stored in it.
//
// Example:
//
//	c, err := locker.RestoreCompartment(id, 4, &orderID)
//	if err != nil {
//	    return fmt.Errorf("restoration failed: %w", err)
//	}
func RestoreCompartment(id kernel.UUID, number int, orderID *kernel.UUID) (*Compartment, error) {
	c := &Compartment{guard: guard.NewConstructorGuard()}

	if err := errors.Join(c.setID(id), c.setNumber(number), c.setOrderID(orderID)); err != nil {
		return nil, err
	}

	return c, nil
}

// ID returns the unique identifier of the compartment.
func (c *Compartment) ID() kernel.UUID {
	return c.id
}

// Number returns the 1-based door number.
func (c *Compartment) Number() int {
	return c.number
}

// OrderID returns the order stored in the compartment, or nil if it is empty.
func (c *Compartment) OrderID() *kernel.UUID {
	return c.orderID
}

// IsOccupied reports whether an item is currently stored.
func (c *Compartment) IsOccupied() bool {
	return c.orderID != nil
}

// Holds reports whether the compartment stores the given order's item.
func (c *Compartment) Holds(orderID kernel.UUID) bool {
	return c.orderID != nil && c.orderID.IsEqual(orderID)
}

func (c *Compartment) occupy(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if c.IsOccupied() {
		return ErrCompartmentIsOccupied
	}

	c.orderID = &orderID
	return nil
}

func (c *Compartment) vacate() {
	c.orderID = nil
}

func (c *Compartment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

func (c *Compartment) setNumber(number int) error {
	if number < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"number is invalid",
			fmt.Errorf("%d is not greater than 0", number),
		)
	}

	c.number = number
	return nil
}

func (c *Compartment) setOrderID(orderID *kernel.UUID) error {
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return err
		}
		id := *orderID
		orderID = &id
	}

	c.orderID = orderID
	return nil
}

// Validate checks that the Compartment was created through a constructor.
func (c *Compartment) Validate() error {
	if c == nil {
		return ErrCompartmentIsNotConstructed
	}
	return c.guard.Validate(ErrCompartmentIsNotConstructed)
}
