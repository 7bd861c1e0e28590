package listing

import (
	"errors"
	"fmt"
	"strings"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"
	"lockers/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrListingUnavailable      = errors.New("listing is not available")
	ErrSelfPurchase            = errors.New("seller cannot buy their own listing")
	ErrListingIsNotConstructed = errors.New("Listing must be created via NewListing or RestoreListing")
)

// Status is the availability of a listing.
type Status string

const (
	Active   Status = "active"
	Reserved Status = "reserved"
	Sold     Status = "sold"
)

func (s Status) Validate() error {
	switch s {
	case Active, Reserved, Sold:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("listing status", fmt.Errorf("%q is not a known status", string(s)))
	}
}

// Listing is the item being sold.
type Listing struct {
	id       kernel.UUID
	sellerID kernel.UUID
	title    string
	price    decimal.Decimal
	status   Status
	buyerID  *kernel.UUID
	co2Saved *decimal.Decimal
	pickup   kernel.Coordinates
	guard    guard.ConstructorGuard
}

// NewListing creates an active listing. co2Saved and pickup are optional.
func NewListing(
	id, sellerID kernel.UUID,
	title string,
	price decimal.Decimal,
	co2Saved *decimal.Decimal,
	pickup kernel.Coordinates,
) (*Listing, error) {
	return RestoreListing(id, sellerID, title, price, Active, nil, co2Saved, pickup)
}

func RestoreListing(
	id, sellerID kernel.UUID,
	title string,
	price decimal.Decimal,
	status Status,
	buyerID *kernel.UUID,
	co2Saved *decimal.Decimal,
	pickup kernel.Coordinates,
) (*Listing, error) {
	errList := []error{id.Validate(), sellerID.Validate(), status.Validate()}
	if strings.TrimSpace(title) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("title"))
	}
	if price.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price)))
	}
	if buyerID != nil {
		errList = append(errList, buyerID.Validate())
	}
	if status == Reserved && buyerID == nil {
		errList = append(errList, errs.NewValueIsRequiredError("buyerID of a reserved listing"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	l := &Listing{
		id:       id,
		sellerID: sellerID,
		title:    title,
		price:    price,
		status:   status,
		pickup:   pickup,
		guard:    guard.NewConstructorGuard(),
	}
	if buyerID != nil {
		b := *buyerID
		l.buyerID = &b
	}
	if co2Saved != nil {
		c := *co2Saved
		l.co2Saved = &c
	}
	return l, nil
}

func (l *Listing) ID() kernel.UUID { return l.id }
func (l *Listing) SellerID() kernel.UUID { return l.sellerID }
func (l *Listing) Title() string { return l.title }
func (l *Listing) Price() decimal.Decimal { return l.price }
func (l *Listing) Status() Status { return l.status }

// BuyerID returns the buyer holding the reservation or the sale, if any.
func (l *Listing) BuyerID() *kernel.UUID {
	if l.buyerID == nil {
		return nil
	}
	b := *l.buyerID
	return &b
}

// CO2Saved returns the kilograms of CO2 saved by buying second-hand, when known.
func (l *Listing) CO2Saved() (decimal.Decimal, bool) {
	if l.co2Saved == nil {
		return decimal.Zero, false
	}
	return *l.co2Saved, true
}

// Pickup returns the seller's pickup point; the zero value means unknown.
func (l *Listing) Pickup() (kernel.Coordinates, bool) {
	return l.pickup, l.pickup.Validate() == nil
}

// Reserve holds the listing for buyerID. A listing already reserved for the
// same buyer may be reserved again.
func (l *Listing) Reserve(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	if buyerID.IsEqual(l.sellerID) {
		return ErrSelfPurchase
	}

	switch {
	case l.status == Active:
	case l.status == Reserved && l.buyerID != nil && l.buyerID.IsEqual(buyerID):
	default:
		return ErrListingUnavailable
	}

	l.status = Reserved
	l.buyerID = &buyerID
	return nil
}

// MarkSold finalises the sale to the buyer that reserved the listing.
func (l *Listing) MarkSold(buyerID kernel.UUID) error {
	if l.status != Reserved || l.buyerID == nil || !l.buyerID.IsEqual(buyerID) {
		return ErrListingUnavailable
	}

	l.status = Sold
	return nil
}

// Release puts a listing reserved by buyerID back on sale and reports whether
// it did. A sold listing, or one reserved for someone else, is left untouched.
func (l *Listing) Release(buyerID kernel.UUID) bool {
	if l.status != Reserved || l.buyerID == nil || !l.buyerID.IsEqual(buyerID) {
		return false
	}

	l.status = Active
	l.buyerID = nil
	return true
}

func (l *Listing) Validate() error {
	if l == nil {
		return ErrListingIsNotConstructed
	}
	return l.guard.Validate(ErrListingIsNotConstructed)
}
