package lockerrepo

import (
	"context"
	"errors"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/core/ports"
	"lockers/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.LockerRepository = (*GormLockerRepository)(nil)

// GormLockerRepository implements LockerRepository using GORM.
type GormLockerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormLockerRepository(db *gorm.DB, tracker aggregateTracker) *GormLockerRepository {
	return &GormLockerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new locker together with its compartments.
func (r *GormLockerRepository) Add(ctx context.Context, aggregate *locker.Locker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the counters and the compartments whose occupant changed.
func (r *GormLockerRepository) Update(ctx context.Context, aggregate *locker.Locker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LockerDTO{}).
		Where("id = ?", dto.ID).
		Select("name", "address", "latitude", "longitude",
			"total_compartments", "available_compartments", "is_active").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("locker", aggregate.ID())
	}

	if err := r.updateCompartments(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormLockerRepository) updateCompartments(ctx context.Context, dto LockerDTO) error {
	var stored []CompartmentDTO
	err := r.db.WithContext(ctx).
		Select("id", "order_id").
		Where("locker_id = ?", dto.ID).
		Find(&stored).Error
	if err != nil {
		return err
	}

	occupants := make(map[uuid.UUID]*uuid.UUID, len(stored))
	for _, c := range stored {
		occupants[c.ID] = c.OrderID
	}

	for i := range dto.Compartments {
		c := &dto.Compartments[i]
		if sameOccupant(occupants[c.ID], c.OrderID) {
			continue
		}
		err = r.db.WithContext(ctx).
			Model(&CompartmentDTO{}).
			Where("id = ?", c.ID).
			Update("order_id", c.OrderID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func sameOccupant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Get retrieves a locker by ID without locking it.
func (r *GormLockerRepository) Get(ctx context.Context, id kernel.UUID) (*locker.Locker, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate locks the locker row until the surrounding transaction ends.
// Every handler that changes compartment counts goes through here so that
// concurrent reservations of the last compartment are serialised.
func (r *GormLockerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*locker.Locker, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormLockerRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*locker.Locker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LockerDTO
	err := db.WithContext(ctx).
		Preload("Compartments", func(tx *gorm.DB) *gorm.DB { return tx.Order("number") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("locker", id)
		}
		return nil, err
	}

	return toDomain(dto)
}
