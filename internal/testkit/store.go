// Package testkit provides in-memory implementations of the engine's ports
// for handler and adapter tests: a transactional Store with its unit of work,
// a controllable clock and recorders for the external collaborators.
package testkit

import (
	"context"
	"errors"
	"sync"

	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/core/ports"
	"lockers/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var errNoTransaction = errors.New("no active transaction")

type compartmentRow struct {
	id      kernel.UUID
	number  int
	orderID *kernel.UUID
}

type lockerRow struct {
	id           kernel.UUID
	name         string
	address      string
	location     kernel.Coordinates
	total        int
	available    int
	active       bool
	compartments []compartmentRow
}

type listingRow struct {
	id       kernel.UUID
	sellerID kernel.UUID
	title    string
	price    decimal.Decimal
	status   listing.Status
	buyerID  *kernel.UUID
	co2Saved *decimal.Decimal
	pickup   kernel.Coordinates
}

type tables struct {
	orders   map[kernel.UUID]order.Snapshot
	lockers  map[kernel.UUID]lockerRow
	listings map[kernel.UUID]listingRow
}

func (t tables) clone() tables {
	c := tables{
		orders:   make(map[kernel.UUID]order.Snapshot, len(t.orders)),
		lockers:  make(map[kernel.UUID]lockerRow, len(t.lockers)),
		listings: make(map[kernel.UUID]listingRow, len(t.listings)),
	}
	for k, v := range t.orders {
		c.orders[k] = v
	}
	for k, v := range t.lockers {
		v.compartments = append([]compartmentRow(nil), v.compartments...)
		c.lockers[k] = v
	}
	for k, v := range t.listings {
		c.listings[k] = v
	}
	return c
}

// Store keeps orders, lockers and listings in memory. Transactions are
// serialised: Begin blocks until the previous unit of work commits or rolls
// back, which gives the same outcome as the row locks of the real database
// for the races the handlers care about.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	data   tables
}

func NewStore() *Store {
	return &Store{data: tables{
		orders:   map[kernel.UUID]order.Snapshot{},
		lockers:  map[kernel.UUID]lockerRow{},
		listings: map[kernel.UUID]listingRow{},
	}}
}

// UoWFactory returns a factory usable wherever commands.UoWFactory is expected.
func (s *Store) UoWFactory() UoWFactory {
	return UoWFactory{store: s}
}

// OrderUoWFactory returns a factory usable wherever commands.OrderUoWFactory is expected.
func (s *Store) OrderUoWFactory() OrderUoWFactory {
	return OrderUoWFactory{store: s}
}

// PutLocker stores a locker outside of any transaction.
func (s *Store) PutLocker(l *locker.Locker) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.data.lockers[l.ID()] = lockerToRow(l)
}

// PutListing stores a listing outside of any transaction.
func (s *Store) PutListing(l *listing.Listing) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.data.listings[l.ID()] = listingToRow(l)
}

// PutOrder stores an order outside of any transaction.
func (s *Store) PutOrder(o *order.Order) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.data.orders[o.ID()] = o.Snapshot()
}

func (s *Store) Order(id kernel.UUID) (*order.Order, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	snap, ok := s.data.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(snap)
}

func (s *Store) Locker(id kernel.UUID) (*locker.Locker, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	row, ok := s.data.lockers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("locker", id)
	}
	return rowToLocker(row)
}

func (s *Store) Listing(id kernel.UUID) (*listing.Listing, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	row, ok := s.data.listings[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("listing", id)
	}
	return rowToListing(row)
}

// Orders returns snapshots of every stored order.
func (s *Store) Orders() []order.Snapshot {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	out := make([]order.Snapshot, 0, len(s.data.orders))
	for _, o := range s.data.orders {
		out = append(out, o)
	}
	return out
}

// Lockers returns every stored locker.
func (s *Store) Lockers() []*locker.Locker {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	out := make([]*locker.Locker, 0, len(s.data.lockers))
	for _, row := range s.data.lockers {
		if l, err := rowToLocker(row); err == nil {
			out = append(out, l)
		}
	}
	return out
}

type UoWFactory struct{ store *Store }

func (f UoWFactory) Create() commands.UoW {
	return &UnitOfWork{store: f.store}
}

type OrderUoWFactory struct{ store *Store }

func (f OrderUoWFactory) Create() commands.OrderUoW {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork is the in-memory counterpart of the gorm unit of work.
type UnitOfWork struct {
	store    *Store
	active   bool
	snapshot tables
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return nil
	}
	u.store.txMu.Lock()
	u.store.dataMu.RLock()
	u.snapshot = u.store.data.clone()
	u.store.dataMu.RUnlock()
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return errNoTransaction
	}
	u.active = false
	u.snapshot = tables{}
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return errNoTransaction
	}
	u.store.dataMu.Lock()
	u.store.data = u.snapshot
	u.store.dataMu.Unlock()
	u.active = false
	u.snapshot = tables{}
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{store: u.store}
}

func (u *UnitOfWork) LockerRepository() ports.LockerRepository {
	return &lockerRepository{store: u.store}
}

func (u *UnitOfWork) ListingRepository() ports.ListingRepository {
	return &listingRepository{store: u.store}
}
