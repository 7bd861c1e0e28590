package order

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"lockers/internal/pkg/errs"
	"lockers/internal/pkg/guard"
)

const (
	PinLength = 6
	minPin    = 100000
	maxPin    = 999999
)

var ErrPinIsNotConstructed = errs.NewValueIsRequiredError("Pin must be created via NewRandomPin or PinFromString")

// Pin is the 6-digit pickup code shown to the buyer once the item sits in a compartment.
type Pin struct {
	value string
	guard guard.ConstructorGuard
}

// NewRandomPin draws a PIN uniformly from [100000, 999999] using crypto/rand.
func NewRandomPin() (Pin, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxPin-minPin+1))
	if err != nil {
		return Pin{}, fmt.Errorf("generate pickup pin: %w", err)
	}
	return Pin{
		value: fmt.Sprintf("%06d", n.Int64()+minPin),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// PinFromString accepts exactly six ASCII digits.
func PinFromString(s string) (Pin, error) {
	if !isSixDigits(s) {
		return Pin{}, errs.NewValueIsInvalidErrorWithCause("pin", fmt.Errorf("%q is not %d digits", s, PinLength))
	}
	return Pin{value: s, guard: guard.NewConstructorGuard()}, nil
}

func (p Pin) Validate() error {
	return p.guard.Validate(ErrPinIsNotConstructed)
}

func (p Pin) String() string {
	return p.value
}

// Matches compares in constant time; malformed candidates never match.
func (p Pin) Matches(candidate string) bool {
	if p.Validate() != nil || !isSixDigits(candidate) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.value), []byte(candidate)) == 1
}

func isSixDigits(s string) bool {
	if len(s) != PinLength {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
