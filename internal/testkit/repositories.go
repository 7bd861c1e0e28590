package testkit

import (
	"context"
	"sort"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/pkg/errs"
)

type orderRepository struct{ store *Store }

func (r *orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	if _, exists := r.store.data.orders[o.ID()]; exists {
		return errs.NewValueIsInvalidError("order already exists")
	}
	r.store.data.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r *orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	current, ok := r.store.data.orders[o.ID()]
	if !ok || current.Version != o.Version()-1 {
		return errs.NewConcurrentModificationError("order", o.ID())
	}
	r.store.data.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	return r.store.Order(id)
}

func (r *orderRepository) ListPaymentExpired(_ context.Context, now time.Time) ([]kernel.UUID, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.Status == order.PendingPayment && s.PaymentDeadline.Before(now)
	}), nil
}

func (r *orderRepository) ListPinExpired(_ context.Context, now time.Time) ([]kernel.UUID, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.Status == order.ReadyForPickup && s.ExpiresAt != nil && s.ExpiresAt.Before(now)
	}), nil
}

func (r *orderRepository) ListInTransit(_ context.Context) ([]kernel.UUID, error) {
	return r.list(func(s order.Snapshot) bool { return s.Status == order.InTransit }), nil
}

func (r *orderRepository) HasLiveOrderForListing(_ context.Context, listingID, exceptID kernel.UUID) (bool, error) {
	matched := r.list(func(s order.Snapshot) bool {
		return s.ListingID.IsEqual(listingID) && !s.ID.IsEqual(exceptID) && s.Status.HoldsCompartment()
	})
	return len(matched) > 0, nil
}

func (r *orderRepository) list(match func(order.Snapshot) bool) []kernel.UUID {
	r.store.dataMu.RLock()
	defer r.store.dataMu.RUnlock()
	matched := make([]order.Snapshot, 0)
	for _, s := range r.store.data.orders {
		if match(s) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ReservedAt.Before(matched[j].ReservedAt) })

	ids := make([]kernel.UUID, 0, len(matched))
	for _, s := range matched {
		ids = append(ids, s.ID)
	}
	return ids
}

type lockerRepository struct{ store *Store }

func (r *lockerRepository) Add(_ context.Context, l *locker.Locker) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.store.PutLocker(l)
	return nil
}

func (r *lockerRepository) Update(_ context.Context, l *locker.Locker) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.store.PutLocker(l)
	return nil
}

func (r *lockerRepository) Get(_ context.Context, id kernel.UUID) (*locker.Locker, error) {
	return r.store.Locker(id)
}

// GetForUpdate needs no extra locking: the store serialises transactions.
func (r *lockerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*locker.Locker, error) {
	return r.Get(ctx, id)
}

type listingRepository struct{ store *Store }

func (r *listingRepository) Add(_ context.Context, l *listing.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.store.PutListing(l)
	return nil
}

func (r *listingRepository) Update(_ context.Context, l *listing.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.store.PutListing(l)
	return nil
}

func (r *listingRepository) Get(_ context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.store.Listing(id)
}

func (r *listingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.Get(ctx, id)
}

func lockerToRow(l *locker.Locker) lockerRow {
	row := lockerRow{
		id:        l.ID(),
		name:      l.Name(),
		address:   l.Address(),
		location:  l.Location(),
		total:     l.TotalCompartments(),
		available: l.AvailableCompartments(),
		active:    l.IsActive(),
	}
	for _, c := range l.Compartments() {
		cr := compartmentRow{id: c.ID(), number: c.Number()}
		if id := c.OrderID(); id != nil {
			orderID := *id
			cr.orderID = &orderID
		}
		row.compartments = append(row.compartments, cr)
	}
	return row
}

func rowToLocker(row lockerRow) (*locker.Locker, error) {
	compartments := make([]*locker.Compartment, 0, len(row.compartments))
	for _, cr := range row.compartments {
		c, err := locker.RestoreCompartment(cr.id, cr.number, cr.orderID)
		if err != nil {
			return nil, err
		}
		compartments = append(compartments, c)
	}
	return locker.RestoreLocker(row.id, row.name, row.address, row.location,
		row.total, row.available, row.active, compartments)
}

func listingToRow(l *listing.Listing) listingRow {
	row := listingRow{
		id:       l.ID(),
		sellerID: l.SellerID(),
		title:    l.Title(),
		price:    l.Price(),
		status:   l.Status(),
		buyerID:  l.BuyerID(),
	}
	if co2, ok := l.CO2Saved(); ok {
		row.co2Saved = &co2
	}
	row.pickup, _ = l.Pickup()
	return row
}

func rowToListing(row listingRow) (*listing.Listing, error) {
	return listing.RestoreListing(row.id, row.sellerID, row.title, row.price,
		row.status, row.buyerID, row.co2Saved, row.pickup)
}
