package queries

import (
	"errors"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order on behalf of its buyer or seller.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, userID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	userID  kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID, userID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), userID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		userID:  userID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) UserID() kernel.UUID { return q.userID }

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is the read model of an order joined with its locker.
// PickupPin is only filled in for the buyer.
type GetOrderQueryResponse struct {
	ID                kernel.UUID
	ListingID         kernel.UUID
	LockerID          kernel.UUID
	LockerName        string
	LockerAddress     string
	BuyerID           kernel.UUID
	SellerID          kernel.UUID
	Status            string
	ItemPrice         decimal.Decimal
	DeliveryFee       decimal.Decimal
	TotalPrice        decimal.Decimal
	ReservedAt        time.Time
	PaymentDeadline   time.Time
	PaidAt            *time.Time
	PickupScheduledAt *time.Time
	RiderPickedUpAt   *time.Time
	DeliveredAt       *time.Time
	PickedUpAt        *time.Time
	ExpiresAt         *time.Time
	CompartmentNumber *int
	PickupPin         string
	CancelReason      string
}
