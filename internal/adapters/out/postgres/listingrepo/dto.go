// Package listingrepo maps marketplace listings to the listings table. Only
// the reservation columns are written; the rest of the row belongs to the
// marketplace.
package listingrepo

import (
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingDTO struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	SellerID        uuid.UUID        `gorm:"type:uuid;not null"`
	Title           string           `gorm:"type:text;not null"`
	Price           decimal.Decimal  `gorm:"type:numeric(12,2)"`
	Status          string           `gorm:"type:text;not null"`
	BuyerID         *uuid.UUID       `gorm:"type:uuid"`
	CO2Saved        *decimal.Decimal `gorm:"column:co2_saved;type:numeric(10,2)"`
	PickupLatitude  *float64
	PickupLongitude *float64
}

func (ListingDTO) TableName() string {
	return "listings"
}

func fromDomain(l *listing.Listing) ListingDTO {
	dto := ListingDTO{
		ID:       l.ID().Bytes(),
		SellerID: l.SellerID().Bytes(),
		Title:    l.Title(),
		Price:    l.Price(),
		Status:   string(l.Status()),
	}
	if buyer := l.BuyerID(); buyer != nil {
		raw := buyer.Bytes()
		dto.BuyerID = &raw
	}
	if co2, ok := l.CO2Saved(); ok {
		dto.CO2Saved = &co2
	}
	if pickup, ok := l.Pickup(); ok {
		lat, lon := pickup.Latitude(), pickup.Longitude()
		dto.PickupLatitude, dto.PickupLongitude = &lat, &lon
	}
	return dto
}

func toDomain(dto ListingDTO) (*listing.Listing, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var buyerID *kernel.UUID
	if dto.BuyerID != nil {
		b, err := kernel.UUIDFromBytes((*dto.BuyerID)[:])
		if err != nil {
			return nil, err
		}
		buyerID = &b
	}

	var pickup kernel.Coordinates
	if dto.PickupLatitude != nil && dto.PickupLongitude != nil {
		pickup, err = kernel.NewCoordinates(*dto.PickupLatitude, *dto.PickupLongitude)
		if err != nil {
			return nil, err
		}
	}

	return listing.RestoreListing(id, sellerID, dto.Title, dto.Price,
		listing.Status(dto.Status), buyerID, dto.CO2Saved, pickup)
}
