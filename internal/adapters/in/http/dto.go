package http

import (
	"strings"
	"time"

	"lockers/internal/core/application/usecases/queries"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreateOrderRequest struct {
	ListingID string `json:"listingId"`
	LockerID  string `json:"lockerId"`
}

type SetPickupTimeRequest struct {
	PickupTime time.Time `json:"pickupTime"`
}

type VerifyPinRequest struct {
	Pin string `json:"pin"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Order is the JSON view of an order. Money is rendered as fixed two-decimal strings.
type Order struct {
	ID                string     `json:"id"`
	ListingID         string     `json:"listingId"`
	LockerID          string     `json:"lockerId"`
	LockerName        string     `json:"lockerName"`
	LockerAddress     string     `json:"lockerAddress"`
	BuyerID           string     `json:"buyerId"`
	SellerID          string     `json:"sellerId"`
	Status            string     `json:"status"`
	ItemPrice         string     `json:"itemPrice"`
	DeliveryFee       string     `json:"deliveryFee"`
	TotalPrice        string     `json:"totalPrice"`
	ReservedAt        time.Time  `json:"reservedAt"`
	PaymentDeadline   time.Time  `json:"paymentDeadline"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	PickupScheduledAt *time.Time `json:"pickupScheduledAt,omitempty"`
	RiderPickedUpAt   *time.Time `json:"riderPickedUpAt,omitempty"`
	DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
	PickedUpAt        *time.Time `json:"pickedUpAt,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	CompartmentNumber *int       `json:"compartmentNumber,omitempty"`
	PickupPin         string     `json:"pickupPin,omitempty"`
	CancelReason      string     `json:"cancelReason,omitempty"`
}

type OrderResponse struct {
	Success bool  `json:"success"`
	Order   Order `json:"order"`
}

type VerifyPinResponse struct {
	Success            bool  `json:"success"`
	Order              Order `json:"order"`
	PointsAwarded      int   `json:"pointsAwarded"`
	BuyerPointsAwarded int   `json:"buyerPointsAwarded"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Locker struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Address               string    `json:"address"`
	Location              *Location `json:"location,omitempty"`
	TotalCompartments     int       `json:"totalCompartments"`
	AvailableCompartments int       `json:"availableCompartments"`
}

func toOrder(v queries.GetOrderQueryResponse) Order {
	return Order{
		ID:                v.ID.String(),
		ListingID:         v.ListingID.String(),
		LockerID:          v.LockerID.String(),
		LockerName:        v.LockerName,
		LockerAddress:     v.LockerAddress,
		BuyerID:           v.BuyerID.String(),
		SellerID:          v.SellerID.String(),
		Status:            strings.ToUpper(v.Status),
		ItemPrice:         v.ItemPrice.StringFixed(2),
		DeliveryFee:       v.DeliveryFee.StringFixed(2),
		TotalPrice:        v.TotalPrice.StringFixed(2),
		ReservedAt:        v.ReservedAt,
		PaymentDeadline:   v.PaymentDeadline,
		PaidAt:            v.PaidAt,
		PickupScheduledAt: v.PickupScheduledAt,
		RiderPickedUpAt:   v.RiderPickedUpAt,
		DeliveredAt:       v.DeliveredAt,
		PickedUpAt:        v.PickedUpAt,
		ExpiresAt:         v.ExpiresAt,
		CompartmentNumber: v.CompartmentNumber,
		PickupPin:         v.PickupPin,
		CancelReason:      v.CancelReason,
	}
}

func toLocker(v queries.ListActiveLockersQueryResponse) Locker {
	l := Locker{
		ID:                    v.ID.String(),
		Name:                  v.Name,
		Address:               v.Address,
		TotalCompartments:     v.TotalCompartments,
		AvailableCompartments: v.AvailableCompartments,
	}
	if v.Location != nil {
		l.Location = &Location{Latitude: v.Location.Latitude(), Longitude: v.Location.Longitude()}
	}
	return l
}
