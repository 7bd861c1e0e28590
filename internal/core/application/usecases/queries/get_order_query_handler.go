package queries

import (
	"context"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRow struct {
	ID                uuid.UUID
	ListingID         uuid.UUID
	LockerID          uuid.UUID
	LockerName        string
	LockerAddress     string
	BuyerID           uuid.UUID
	SellerID          uuid.UUID
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
	PickupPin         *string
	CancelReason      string
}

// GetOrderQueryHandler reads orders straight from locker_orders without
// loading the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown id and
// order.ErrNotOrderParticipant when the caller is neither buyer nor seller.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row orderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.listing_id,
			o.locker_id,
			l.name    AS locker_name,
			l.address AS locker_address,
			o.buyer_id,
			o.seller_id,
			o.status,
			o.item_price,
			o.delivery_fee,
			o.total_price,
			o.reserved_at,
			o.payment_deadline,
			o.paid_at,
			o.pickup_scheduled_at,
			o.rider_picked_up_at,
			o.delivered_at,
			o.picked_up_at,
			o.expires_at,
			o.compartment_number,
			o.pickup_pin,
			o.cancel_reason
		FROM locker_orders o
		JOIN lockers l ON l.id = o.locker_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	resp, err := row.toResponse()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	switch {
	case query.UserID().IsEqual(resp.BuyerID):
	case query.UserID().IsEqual(resp.SellerID):
		resp.PickupPin = ""
	default:
		return GetOrderQueryResponse{}, order.ErrNotOrderParticipant
	}

	return resp, nil
}

func (r orderRow) toResponse() (GetOrderQueryResponse, error) {
	ids := make([]kernel.UUID, 0, 5)
	for _, raw := range []uuid.UUID{r.ID, r.ListingID, r.LockerID, r.BuyerID, r.SellerID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return GetOrderQueryResponse{}, err
		}
		ids = append(ids, id)
	}

	resp := GetOrderQueryResponse{
		ID:                ids[0],
		ListingID:         ids[1],
		LockerID:          ids[2],
		LockerName:        r.LockerName,
		LockerAddress:     r.LockerAddress,
		BuyerID:           ids[3],
		SellerID:          ids[4],
		Status:            r.Status,
		ItemPrice:         r.ItemPrice,
		DeliveryFee:       r.DeliveryFee,
		TotalPrice:        r.TotalPrice,
		ReservedAt:        r.ReservedAt.UTC(),
		PaymentDeadline:   r.PaymentDeadline.UTC(),
		PaidAt:            utc(r.PaidAt),
		PickupScheduledAt: utc(r.PickupScheduledAt),
		RiderPickedUpAt:   utc(r.RiderPickedUpAt),
		DeliveredAt:       utc(r.DeliveredAt),
		PickedUpAt:        utc(r.PickedUpAt),
		ExpiresAt:         utc(r.ExpiresAt),
		CompartmentNumber: r.CompartmentNumber,
		CancelReason:      r.CancelReason,
	}
	if r.PickupPin != nil {
		resp.PickupPin = *r.PickupPin
	}
	return resp, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
