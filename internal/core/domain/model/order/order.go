package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	// MaxCancelReasonLength bounds the free-text cancellation reason, in characters.
	MaxCancelReasonLength = 500

	// PaymentExpiredReason is recorded when the reservation sweep cancels an unpaid order.
	PaymentExpiredReason = "Payment deadline expired"
)

var (
	ErrOrderIsNotConstructed     = errors.New("Order must be created via NewOrder or RestoreOrder")
	ErrNotOrderParticipant       = errors.New("user is not allowed to act on this order")
	ErrBuyerIsSeller             = errors.New("buyer cannot be the seller")
	ErrPaymentDeadlinePassed     = errors.New("payment deadline has passed")
	ErrPaymentDeadlineNotReached = errors.New("payment deadline has not passed yet")
	ErrPinExpired                = errors.New("pickup pin has expired")
	ErrPinNotExpired             = errors.New("pickup pin has not expired yet")
	ErrPinMismatch               = errors.New("pickup pin does not match")
)

// Order is the aggregate root of one marketplace purchase travelling through a
// pickup locker. It owns the price snapshot, the deadlines, the pickup PIN and
// the compartmentHeld flag, which is the authoritative record of whether this
// order still owns one of the locker's reserved compartments.
//
// Invariants:
//   - compartmentHeld is set on creation and cleared exactly once, by the
//     transition that leaves the compartment-holding statuses
//   - pickupPin exists only from ReadyForPickup onward
//   - compartmentNumber exists only from InTransit onward
//   - every transition bumps version; repositories persist with
//     "WHERE version = Version()-1" to detect concurrent writers
type Order struct {
	id        kernel.UUID
	listingID kernel.UUID
	lockerID  kernel.UUID
	buyerID   kernel.UUID
	sellerID  kernel.UUID

	itemPrice   decimal.Decimal
	deliveryFee decimal.Decimal
	totalPrice  decimal.Decimal

	status Status

	reservedAt        time.Time
	paymentDeadline   time.Time
	paidAt            *time.Time
	pickupScheduledAt *time.Time
	riderPickedUpAt   *time.Time
	deliveredAt       *time.Time
	pickedUpAt        *time.Time
	expiresAt         *time.Time

	pickupPin         *Pin
	compartmentNumber *int
	compartmentHeld   bool
	cancelReason      string

	updatedAt time.Time
	version   int

	isConstructed bool
}

// Snapshot is the flat, persistable state of an Order.
type Snapshot struct {
	ID        kernel.UUID
	ListingID kernel.UUID
	LockerID  kernel.UUID
	BuyerID   kernel.UUID
	SellerID  kernel.UUID

	ItemPrice   decimal.Decimal
	DeliveryFee decimal.Decimal
	TotalPrice  decimal.Decimal

	Status Status

	ReservedAt        time.Time
	PaymentDeadline   time.Time
	PaidAt            *time.Time
	PickupScheduledAt *time.Time
	RiderPickedUpAt   *time.Time
	DeliveredAt       *time.Time
	PickedUpAt        *time.Time
	ExpiresAt         *time.Time

	// PickupPin is empty until the order is delivered.
	PickupPin         string
	CompartmentNumber *int
	CompartmentHeld   bool
	CancelReason      string

	UpdatedAt time.Time
	Version   int
}

// NewOrder reserves a purchase in PendingPayment. The total is the item price
// plus the delivery fee and the payment deadline is reservedAt+paymentWindow.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), listingID, lockerID, buyerID, sellerID,
//	    decimal.RequireFromString("10.00"), decimal.RequireFromString("2.00"),
//	    clock.Now(), 30*time.Minute)
func NewOrder(
	id, listingID, lockerID, buyerID, sellerID kernel.UUID,
	itemPrice, deliveryFee decimal.Decimal,
	reservedAt time.Time,
	paymentWindow time.Duration,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		listingID.Validate(),
		lockerID.Validate(),
		buyerID.Validate(),
		sellerID.Validate(),
		validateMoney("itemPrice", itemPrice),
		validateMoney("deliveryFee", deliveryFee),
	); err != nil {
		return nil, err
	}
	if buyerID.IsEqual(sellerID) {
		return nil, ErrBuyerIsSeller
	}
	if reservedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("reservedAt")
	}
	if paymentWindow <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("paymentWindow", fmt.Errorf("%s is not positive", paymentWindow))
	}

	return &Order{
		id:              id,
		listingID:       listingID,
		lockerID:        lockerID,
		buyerID:         buyerID,
		sellerID:        sellerID,
		itemPrice:       itemPrice,
		deliveryFee:     deliveryFee,
		totalPrice:      itemPrice.Add(deliveryFee),
		status:          PendingPayment,
		reservedAt:      reservedAt,
		paymentDeadline: reservedAt.Add(paymentWindow),
		compartmentHeld: true,
		updatedAt:       reservedAt,
		version:         1,
		isConstructed:   true,
	}, nil
}

// RestoreOrder rebuilds an Order from persisted state and re-checks the
// status-dependent invariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.ListingID.Validate(),
		s.LockerID.Validate(),
		s.BuyerID.Validate(),
		s.SellerID.Validate(),
		s.Status.Validate(),
		validateMoney("itemPrice", s.ItemPrice),
		validateMoney("deliveryFee", s.DeliveryFee),
		validateMoney("totalPrice", s.TotalPrice),
	); err != nil {
		return nil, err
	}

	o := &Order{
		id:                s.ID,
		listingID:         s.ListingID,
		lockerID:          s.LockerID,
		buyerID:           s.BuyerID,
		sellerID:          s.SellerID,
		itemPrice:         s.ItemPrice,
		deliveryFee:       s.DeliveryFee,
		totalPrice:        s.TotalPrice,
		status:            s.Status,
		reservedAt:        s.ReservedAt,
		paymentDeadline:   s.PaymentDeadline,
		paidAt:            copyTime(s.PaidAt),
		pickupScheduledAt: copyTime(s.PickupScheduledAt),
		riderPickedUpAt:   copyTime(s.RiderPickedUpAt),
		deliveredAt:       copyTime(s.DeliveredAt),
		pickedUpAt:        copyTime(s.PickedUpAt),
		expiresAt:         copyTime(s.ExpiresAt),
		compartmentHeld:   s.CompartmentHeld,
		cancelReason:      s.CancelReason,
		updatedAt:         s.UpdatedAt,
		version:           s.Version,
		isConstructed:     true,
	}
	if s.CompartmentNumber != nil {
		n := *s.CompartmentNumber
		o.compartmentNumber = &n
	}
	if s.PickupPin != "" {
		pin, err := PinFromString(s.PickupPin)
		if err != nil {
			return nil, err
		}
		o.pickupPin = &pin
	}

	if err := o.validateState(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) ListingID() kernel.UUID { return o.listingID }
func (o *Order) LockerID() kernel.UUID { return o.lockerID }
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }
func (o *Order) SellerID() kernel.UUID { return o.sellerID }
func (o *Order) ItemPrice() decimal.Decimal { return o.itemPrice }
func (o *Order) DeliveryFee() decimal.Decimal { return o.deliveryFee }
func (o *Order) TotalPrice() decimal.Decimal { return o.totalPrice }
func (o *Order) Status() Status { return o.status }
func (o *Order) PaymentDeadline() time.Time { return o.paymentDeadline }
func (o *Order) CompartmentHeld() bool { return o.compartmentHeld }
func (o *Order) CancelReason() string { return o.cancelReason }
func (o *Order) Version() int { return o.version }
func (o *Order) ExpiresAt() *time.Time { return copyTime(o.expiresAt) }
func (o *Order) DeliveredAt() *time.Time { return copyTime(o.deliveredAt) }
func (o *Order) IsParticipant(u kernel.UUID) bool { return u.IsEqual(o.buyerID) || u.IsEqual(o.sellerID) }

// CompartmentNumber returns the assigned compartment, if any.
func (o *Order) CompartmentNumber() (int, bool) {
	if o.compartmentNumber == nil {
		return 0, false
	}
	return *o.compartmentNumber, true
}

// PickupPin returns the PIN once the order has been delivered.
func (o *Order) PickupPin() (Pin, bool) {
	if o.pickupPin == nil {
		return Pin{}, false
	}
	return *o.pickupPin, true
}

// Counterparty returns the seller for the buyer and the buyer for anyone else.
func (o *Order) Counterparty(userID kernel.UUID) kernel.UUID {
	if userID.IsEqual(o.buyerID) {
		return o.sellerID
	}
	return o.buyerID
}

// Snapshot exports the current state for persistence and read models.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:                o.id,
		ListingID:         o.listingID,
		LockerID:          o.lockerID,
		BuyerID:           o.buyerID,
		SellerID:          o.sellerID,
		ItemPrice:         o.itemPrice,
		DeliveryFee:       o.deliveryFee,
		TotalPrice:        o.totalPrice,
		Status:            o.status,
		ReservedAt:        o.reservedAt,
		PaymentDeadline:   o.paymentDeadline,
		PaidAt:            copyTime(o.paidAt),
		PickupScheduledAt: copyTime(o.pickupScheduledAt),
		RiderPickedUpAt:   copyTime(o.riderPickedUpAt),
		DeliveredAt:       copyTime(o.deliveredAt),
		PickedUpAt:        copyTime(o.pickedUpAt),
		ExpiresAt:         copyTime(o.expiresAt),
		CompartmentHeld:   o.compartmentHeld,
		CancelReason:      o.cancelReason,
		UpdatedAt:         o.updatedAt,
		Version:           o.version,
	}
	if o.compartmentNumber != nil {
		n := *o.compartmentNumber
		s.CompartmentNumber = &n
	}
	if o.pickupPin != nil {
		s.PickupPin = o.pickupPin.String()
	}
	return s
}

// Pay records the buyer's payment. Paying exactly at the deadline is accepted.
func (o *Order) Pay(buyerID kernel.UUID, now time.Time) error {
	if err := o.ensureBuyer(buyerID); err != nil {
		return err
	}
	newStatus, err := o.status.Pay()
	if err != nil {
		return err
	}
	if now.After(o.paymentDeadline) {
		return ErrPaymentDeadlinePassed
	}

	o.status = newStatus
	o.paidAt = &now
	o.touch(now)
	return nil
}

// SchedulePickup records when the seller expects the rider.
func (o *Order) SchedulePickup(sellerID kernel.UUID, pickupTime, now time.Time) error {
	if err := o.ensureSeller(sellerID); err != nil {
		return err
	}
	if pickupTime.IsZero() {
		return errs.NewValueIsRequiredError("pickupTime")
	}
	newStatus, err := o.status.SchedulePickup()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickupScheduledAt = &pickupTime
	o.touch(now)
	return nil
}

// ValidateHandToRider checks the guards of HandToRider without side effects,
// so the caller can allocate a compartment only for an eligible order.
func (o *Order) ValidateHandToRider(sellerID kernel.UUID) error {
	if err := o.ensureSeller(sellerID); err != nil {
		return err
	}
	_, err := o.status.HandToRider()
	return err
}

// HandToRider puts the order in transit towards the given compartment.
func (o *Order) HandToRider(sellerID kernel.UUID, compartmentNumber int, now time.Time) error {
	if err := o.ValidateHandToRider(sellerID); err != nil {
		return err
	}
	if compartmentNumber < 1 {
		return errs.NewValueIsOutOfRangeError("compartmentNumber", compartmentNumber, 1, "locker capacity")
	}

	o.status = InTransit
	o.compartmentNumber = &compartmentNumber
	o.riderPickedUpAt = &now
	o.touch(now)
	return nil
}

// Deliver places the item in its compartment and issues the pickup PIN,
// valid for pinTTL.
func (o *Order) Deliver(pin Pin, now time.Time, pinTTL time.Duration) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}
	if err = pin.Validate(); err != nil {
		return err
	}
	if pinTTL <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("pinTTL", fmt.Errorf("%s is not positive", pinTTL))
	}

	expiresAt := now.Add(pinTTL)
	o.status = newStatus
	o.pickupPin = &pin
	o.deliveredAt = &now
	o.expiresAt = &expiresAt
	o.touch(now)
	return nil
}

// Collect completes the order when the buyer presents the right PIN before it
// expires. It returns true when the order's compartment must be released.
func (o *Order) Collect(buyerID kernel.UUID, candidate string, now time.Time) (bool, error) {
	if err := o.ensureBuyer(buyerID); err != nil {
		return false, err
	}
	newStatus, err := o.status.Collect()
	if err != nil {
		return false, err
	}
	if o.expiresAt == nil || now.After(*o.expiresAt) {
		return false, ErrPinExpired
	}
	if o.pickupPin == nil || !o.pickupPin.Matches(candidate) {
		return false, ErrPinMismatch
	}

	o.status = newStatus
	o.pickedUpAt = &now
	o.touch(now)
	return o.releaseCompartment(), nil
}

// Cancel is available to the buyer or the seller from any non-terminal status.
// It returns true when the order's compartment must be released.
func (o *Order) Cancel(userID kernel.UUID, reason string, now time.Time) (bool, error) {
	if !o.IsParticipant(userID) {
		return false, ErrNotOrderParticipant
	}
	if err := ValidateCancelReason(reason); err != nil {
		return false, err
	}
	return o.cancel(reason, now)
}

// CancelUnpaid cancels an order whose payment window has elapsed.
func (o *Order) CancelUnpaid(now time.Time) (bool, error) {
	if o.status != PendingPayment {
		return false, o.status.transitionError(Cancelled)
	}
	if !now.After(o.paymentDeadline) {
		return false, ErrPaymentDeadlineNotReached
	}
	return o.cancel(PaymentExpiredReason, now)
}

// Expire closes an uncollected order after its PIN lapsed. The listing is left
// untouched because the item is still physically inside the locker.
func (o *Order) Expire(now time.Time) (bool, error) {
	newStatus, err := o.status.Expire()
	if err != nil {
		return false, err
	}
	if o.expiresAt == nil || !now.After(*o.expiresAt) {
		return false, ErrPinNotExpired
	}

	o.status = newStatus
	o.touch(now)
	return o.releaseCompartment(), nil
}

// ValidateCancelReason requires 1 to MaxCancelReasonLength characters.
func ValidateCancelReason(reason string) error {
	n := utf8.RuneCountInString(reason)
	if n == 0 {
		return errs.NewValueIsRequiredError("reason")
	}
	if n > MaxCancelReasonLength {
		return errs.NewValueIsOutOfRangeError("reason length", n, 1, MaxCancelReasonLength)
	}
	return nil
}

func (o *Order) cancel(reason string, now time.Time) (bool, error) {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return false, err
	}

	o.status = newStatus
	o.cancelReason = reason
	o.touch(now)
	return o.releaseCompartment(), nil
}

func (o *Order) releaseCompartment() bool {
	held := o.compartmentHeld
	o.compartmentHeld = false
	return held
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
	o.version++
}

func (o *Order) ensureBuyer(userID kernel.UUID) error {
	if !userID.IsEqual(o.buyerID) {
		return ErrNotOrderParticipant
	}
	return nil
}

func (o *Order) ensureSeller(userID kernel.UUID) error {
	if !userID.IsEqual(o.sellerID) {
		return ErrNotOrderParticipant
	}
	return nil
}

func (o *Order) validateState() error {
	hasPin := o.pickupPin != nil
	hasCompartment := o.compartmentNumber != nil

	switch o.status {
	case PendingPayment, Paid, PickupScheduled:
		if hasPin || hasCompartment {
			return errs.NewValueIsInvalidErrorWithCause("order state",
				fmt.Errorf("%s order cannot have a pin or a compartment", o.status))
		}
	case InTransit:
		if hasPin || !hasCompartment {
			return errs.NewValueIsInvalidErrorWithCause("order state",
				fmt.Errorf("%s order needs a compartment and no pin", o.status))
		}
	case ReadyForPickup:
		if !hasPin || !hasCompartment || o.expiresAt == nil {
			return errs.NewValueIsInvalidErrorWithCause("order state",
				fmt.Errorf("%s order needs a compartment, a pin and an expiry", o.status))
		}
	default:
	}

	if o.compartmentHeld && !o.status.HoldsCompartment() {
		return errs.NewValueIsInvalidErrorWithCause("order state",
			fmt.Errorf("%s order cannot hold a compartment", o.status))
	}
	return nil
}

func validateMoney(name string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", amount))
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
