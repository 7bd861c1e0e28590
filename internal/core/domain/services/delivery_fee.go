package services

import (
	"errors"
	"math"

	"lockers/internal/core/domain/model/listing"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// DefaultFlatFee is charged for every delivery unless configured otherwise.
	DefaultFlatFee = decimal.RequireFromString("2.00")

	defaultIncludedKm = decimal.NewFromInt(5)
	defaultPerKmFee   = decimal.RequireFromString("0.50")
)

// DeliveryFeePolicy prices the delivery leg of an order at creation time. The
// returned fee is copied into the order and never recomputed.
//
// Example usage:
//
//	var policy services.DeliveryFeePolicy = services.NewFlatFeePolicy(services.DefaultFlatFee)
//	fee, err := policy.Fee(l, lst)
//	if err != nil {
//	    return err
//	}
//	total := lst.Price().Add(fee)
type DeliveryFeePolicy interface {
	Fee(l *locker.Locker, lst *listing.Listing) (decimal.Decimal, error)
}

// FlatFeePolicy charges the same amount for every order.
type FlatFeePolicy struct {
	fee decimal.Decimal
}

// NewFlatFeePolicy clamps negative fees to zero.
func NewFlatFeePolicy(fee decimal.Decimal) FlatFeePolicy {
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	return FlatFeePolicy{fee: fee.Round(2)}
}

func (p FlatFeePolicy) Fee(l *locker.Locker, lst *listing.Listing) (decimal.Decimal, error) {
	if err := errors.Join(l.Validate(), lst.Validate()); err != nil {
		return decimal.Zero, err
	}
	return p.fee, nil
}

// DistanceFeePolicy charges a base fee covering the first IncludedKm of the
// great-circle distance between the listing's pickup point and the locker,
// plus PerKm for every started kilometre beyond it. When either side has no
// coordinates the base fee applies.
//
// With the defaults a 5 km leg costs 2.00 and a 7.2 km leg costs 3.50.
type DistanceFeePolicy struct {
	Base       decimal.Decimal
	IncludedKm decimal.Decimal
	PerKm      decimal.Decimal
}

func NewDistanceFeePolicy(base decimal.Decimal) DistanceFeePolicy {
	return DistanceFeePolicy{Base: base, IncludedKm: defaultIncludedKm, PerKm: defaultPerKmFee}
}

func (p DistanceFeePolicy) Fee(l *locker.Locker, lst *listing.Listing) (decimal.Decimal, error) {
	if err := errors.Join(l.Validate(), lst.Validate()); err != nil {
		return decimal.Zero, err
	}
	if p.Base.IsNegative() || p.PerKm.IsNegative() || p.IncludedKm.IsNegative() {
		return decimal.Zero, errs.NewValueIsInvalidError("distance fee policy")
	}

	pickup, ok := lst.Pickup()
	if !ok || !l.HasLocation() {
		return p.Base.Round(2), nil
	}
	km, err := pickup.DistanceKm(l.Location())
	if err != nil {
		return decimal.Zero, err
	}

	extra := decimal.NewFromFloat(km).Sub(p.IncludedKm)
	if !extra.IsPositive() {
		return p.Base.Round(2), nil
	}
	startedKm := decimal.NewFromFloat(math.Ceil(extra.InexactFloat64()))
	return p.Base.Add(startedKm.Mul(p.PerKm)).Round(2), nil
}
