// Package lockerrepo maps Locker aggregates and their compartments to the
// lockers and locker_compartments tables.
package lockerrepo

import (
	"sort"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/locker"

	"github.com/google/uuid"
)

// LockerDTO is one row of lockers together with its compartments.
type LockerDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"type:text;not null"`
	Address               string    `gorm:"type:text;not null"`
	Latitude              *float64
	Longitude             *float64
	TotalCompartments     int              `gorm:"not null"`
	AvailableCompartments int              `gorm:"not null"`
	IsActive              bool             `gorm:"not null"`
	Compartments          []CompartmentDTO `gorm:"foreignKey:LockerID;constraint:OnDelete:CASCADE"`
}

func (LockerDTO) TableName() string {
	return "lockers"
}

// CompartmentDTO is one physical door; OrderID is set while an item sits inside.
type CompartmentDTO struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LockerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Number   int        `gorm:"not null"`
	OrderID  *uuid.UUID `gorm:"type:uuid"`
}

func (CompartmentDTO) TableName() string {
	return "locker_compartments"
}

func fromDomain(l *locker.Locker) LockerDTO {
	lockerID := l.ID().Bytes()
	dto := LockerDTO{
		ID:                    lockerID,
		Name:                  l.Name(),
		Address:               l.Address(),
		TotalCompartments:     l.TotalCompartments(),
		AvailableCompartments: l.AvailableCompartments(),
		IsActive:              l.IsActive(),
	}
	if l.HasLocation() {
		lat, lon := l.Location().Latitude(), l.Location().Longitude()
		dto.Latitude, dto.Longitude = &lat, &lon
	}

	dto.Compartments = make([]CompartmentDTO, 0, len(l.Compartments()))
	for _, c := range l.Compartments() {
		var orderID *uuid.UUID
		if id := c.OrderID(); id != nil {
			raw := id.Bytes()
			orderID = &raw
		}
		dto.Compartments = append(dto.Compartments, CompartmentDTO{
			ID:       c.ID().Bytes(),
			LockerID: lockerID,
			Number:   c.Number(),
			OrderID:  orderID,
		})
	}
	return dto
}

func toDomain(dto LockerDTO) (*locker.Locker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location kernel.Coordinates
	if dto.Latitude != nil && dto.Longitude != nil {
		location, err = kernel.NewCoordinates(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(dto.Compartments, func(i, j int) bool { return dto.Compartments[i].Number < dto.Compartments[j].Number })
	compartments := make([]*locker.Compartment, 0, len(dto.Compartments))
	for _, cd := range dto.Compartments {
		cid, err := kernel.UUIDFromBytes(cd.ID[:])
		if err != nil {
			return nil, err
		}

		var orderID *kernel.UUID
		if cd.OrderID != nil {
			oid, err := kernel.UUIDFromBytes((*cd.OrderID)[:])
			if err != nil {
				return nil, err
			}
			orderID = &oid
		}

		c, err := locker.RestoreCompartment(cid, cd.Number, orderID)
		if err != nil {
			return nil, err
		}
		compartments = append(compartments, c)
	}

	return locker.RestoreLocker(id, dto.Name, dto.Address, location,
		dto.TotalCompartments, dto.AvailableCompartments, dto.IsActive, compartments)
}
