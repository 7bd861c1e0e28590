package orderrepo

import (
	"context"
	"errors"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/core/ports"
	"lockers/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// Update writes the order only if nobody else changed it since it was read:
// the row must still carry the version preceding the aggregate's current one.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version-1).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("order", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListPaymentExpired returns unpaid orders whose deadline lies before now.
func (r *GormOrderRepository) ListPaymentExpired(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	return r.listIDs(ctx, "status = ? AND payment_deadline < ?", order.PendingPayment.String(), now)
}

// ListPinExpired returns delivered orders whose PIN expired before now.
func (r *GormOrderRepository) ListPinExpired(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	return r.listIDs(ctx, "status = ? AND expires_at < ?", order.ReadyForPickup.String(), now)
}

// ListInTransit returns every order a rider is carrying.
func (r *GormOrderRepository) ListInTransit(ctx context.Context) ([]kernel.UUID, error) {
	return r.listIDs(ctx, "status = ?", order.InTransit.String())
}

// HasLiveOrderForListing reports whether another order still holds the listing.
func (r *GormOrderRepository) HasLiveOrderForListing(ctx context.Context, listingID, exceptID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("listing_id = ? AND id <> ? AND status IN ?", listingID.Bytes(), exceptID.Bytes(), liveStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func liveStatuses() []string {
	statuses := make([]string, 0, int(order.ReadyForPickup-order.PendingPayment)+1)
	for s := order.PendingPayment; s <= order.ReadyForPickup; s++ {
		statuses = append(statuses, s.String())
	}
	return statuses
}

func (r *GormOrderRepository) listIDs(ctx context.Context, query string, args ...any) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where(query, args...).
		Order("reserved_at").
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		kid, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, kid)
	}
	return ids, nil
}
