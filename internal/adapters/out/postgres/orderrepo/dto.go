// Package orderrepo maps the locker Order aggregate to the locker_orders table.
package orderrepo

import (
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is one row of locker_orders.
type OrderDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;index"`
	LockerID  uuid.UUID `gorm:"type:uuid;index"`
	BuyerID   uuid.UUID `gorm:"type:uuid;index"`
	SellerID  uuid.UUID `gorm:"type:uuid;index"`

	ItemPrice   decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2)"`

	Status string

	ReservedAt        time.Time
	PaymentDeadline   time.Time
	PaidAt            *time.Time
	PickupScheduledAt *time.Time
	RiderPickedUpAt   *time.Time
	DeliveredAt       *time.Time
	PickedUpAt        *time.Time
	ExpiresAt         *time.Time

	PickupPin         *string `gorm:"type:varchar(6)"`
	CompartmentNumber *int
	CompartmentHeld   bool
	CancelReason      string

	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
	Version   int
}

func (OrderDTO) TableName() string {
	return "locker_orders"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	dto := OrderDTO{
		ID:                s.ID.Bytes(),
		ListingID:         s.ListingID.Bytes(),
		LockerID:          s.LockerID.Bytes(),
		BuyerID:           s.BuyerID.Bytes(),
		SellerID:          s.SellerID.Bytes(),
		ItemPrice:         s.ItemPrice,
		DeliveryFee:       s.DeliveryFee,
		TotalPrice:        s.TotalPrice,
		Status:            s.Status.String(),
		ReservedAt:        s.ReservedAt,
		PaymentDeadline:   s.PaymentDeadline,
		PaidAt:            s.PaidAt,
		PickupScheduledAt: s.PickupScheduledAt,
		RiderPickedUpAt:   s.RiderPickedUpAt,
		DeliveredAt:       s.DeliveredAt,
		PickedUpAt:        s.PickedUpAt,
		ExpiresAt:         s.ExpiresAt,
		CompartmentNumber: s.CompartmentNumber,
		CompartmentHeld:   s.CompartmentHeld,
		CancelReason:      s.CancelReason,
		UpdatedAt:         s.UpdatedAt,
		Version:           s.Version,
	}
	if s.PickupPin != "" {
		pin := s.PickupPin
		dto.PickupPin = &pin
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids := make([]kernel.UUID, 0, 5)
	for _, raw := range []uuid.UUID{dto.ID, dto.ListingID, dto.LockerID, dto.BuyerID, dto.SellerID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:                ids[0],
		ListingID:         ids[1],
		LockerID:          ids[2],
		BuyerID:           ids[3],
		SellerID:          ids[4],
		ItemPrice:         dto.ItemPrice,
		DeliveryFee:       dto.DeliveryFee,
		TotalPrice:        dto.TotalPrice,
		Status:            status,
		ReservedAt:        dto.ReservedAt.UTC(),
		PaymentDeadline:   dto.PaymentDeadline.UTC(),
		PaidAt:            utc(dto.PaidAt),
		PickupScheduledAt: utc(dto.PickupScheduledAt),
		RiderPickedUpAt:   utc(dto.RiderPickedUpAt),
		DeliveredAt:       utc(dto.DeliveredAt),
		PickedUpAt:        utc(dto.PickedUpAt),
		ExpiresAt:         utc(dto.ExpiresAt),
		CompartmentNumber: dto.CompartmentNumber,
		CompartmentHeld:   dto.CompartmentHeld,
		CancelReason:      dto.CancelReason,
		UpdatedAt:         dto.UpdatedAt.UTC(),
		Version:           dto.Version,
	}
	if dto.PickupPin != nil {
		s.PickupPin = *dto.PickupPin
	}

	return order.RestoreOrder(s)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
