package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"lockers/internal/adapters/out/postgres/listingrepo"
	"lockers/internal/adapters/out/postgres/lockerrepo"
	"lockers/internal/adapters/out/postgres/orderrepo"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/pkg/errs"
	"lockers/internal/testkit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *testkit.Postgres
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker

	sellerID  kernel.UUID
	lockerID  kernel.UUID
	listingID kernel.UUID
	now       time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := testkit.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.pg.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
	suite.now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// orders reference a locker and a listing
	suite.sellerID = kernel.NewUUID()
	suite.lockerID = kernel.NewUUID()
	suite.listingID = kernel.NewUUID()
	lck, err := locker.NewLocker(suite.lockerID, "Central Station", "Europaplatz 1", kernel.Coordinates{}, 12)
	suite.Require().NoError(err)
	suite.Require().NoError(lockerrepo.NewGormLockerRepository(suite.pg.DB, suite.tracker).Add(ctx, lck))
	lst, err := listing.NewListing(suite.listingID, suite.sellerID, "Oak bookshelf",
		decimal.RequireFromString("10.00"), nil, kernel.Coordinates{})
	suite.Require().NoError(err)
	suite.Require().NoError(listingrepo.NewGormListingRepository(suite.pg.DB, suite.tracker).Add(ctx, lst))
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(reservedAt time.Time) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), suite.listingID, suite.lockerID, kernel.NewUUID(), suite.sellerID,
		decimal.RequireFromString("10.00"), decimal.RequireFromString("2.00"), reservedAt, 30*time.Minute)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_TracksAggregate() {
	ctx := context.Background()
	tracker := new(MockAggregateTracker)
	repo := orderrepo.NewGormOrderRepository(suite.pg.DB, tracker)
	o := suite.newOrder(suite.now)
	tracker.On("TrackAggregate", o.ID(), o).Once()

	suite.Require().NoError(repo.Add(ctx, o))
	tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestRoundTrip_DeliveredOrder() {
	ctx := context.Background()
	o := suite.newOrder(suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.Pay(o.BuyerID(), suite.now.Add(time.Minute)))
	suite.Require().NoError(o.HandToRider(suite.sellerID, 4, suite.now.Add(time.Hour)))
	pin, err := order.PinFromString("123456")
	suite.Require().NoError(err)
	suite.Require().NoError(o.Deliver(pin, suite.now.Add(2*time.Hour), 24*time.Hour))
	// three transitions in memory; the row is still at version 1
	suite.Require().ErrorIs(suite.repository.Update(ctx, o), errs.ErrConcurrentModification)

	fresh := suite.newOrder(suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, fresh))
	suite.Require().NoError(fresh.Pay(fresh.BuyerID(), suite.now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, fresh))
	suite.Require().NoError(fresh.HandToRider(suite.sellerID, 4, suite.now.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, fresh))
	suite.Require().NoError(fresh.Deliver(pin, suite.now.Add(2*time.Hour), 24*time.Hour))
	suite.Require().NoError(suite.repository.Update(ctx, fresh))

	got, err := suite.repository.Get(ctx, fresh.ID())
	suite.Require().NoError(err)
	suite.Equal(fresh.Snapshot(), got.Snapshot())
	suite.Equal(order.ReadyForPickup, got.Status())
	suite.Equal("12.00", got.TotalPrice().StringFixed(2))
	number, ok := got.CompartmentNumber()
	suite.True(ok)
	suite.Equal(4, number)
	gotPin, ok := got.PickupPin()
	suite.True(ok)
	suite.Equal("123456", gotPin.String())
	suite.Equal(4, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionIsRejected() {
	ctx := context.Background()
	o := suite.newOrder(suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	_, err = first.Cancel(first.BuyerID(), "changed my mind", suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Pay(second.BuyerID(), suite.now))
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, stored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListQueries() {
	ctx := context.Background()

	stale := suite.newOrder(suite.now.Add(-time.Hour))
	fresh := suite.newOrder(suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, stale))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	transit := suite.newOrder(suite.now.Add(-2 * time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, transit))
	suite.Require().NoError(transit.Pay(transit.BuyerID(), suite.now.Add(-2*time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, transit))
	suite.Require().NoError(transit.HandToRider(suite.sellerID, 1, suite.now.Add(-time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, transit))

	expired, err := suite.repository.ListPaymentExpired(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{stale.ID()}, expired)

	inTransit, err := suite.repository.ListInTransit(ctx)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{transit.ID()}, inTransit)

	suite.Require().NoError(transit.Deliver(mustPin(suite, "654321"), suite.now.Add(-25*time.Hour), 24*time.Hour))
	suite.Require().NoError(suite.repository.Update(ctx, transit))

	pinExpired, err := suite.repository.ListPinExpired(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{transit.ID()}, pinExpired)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestHasLiveOrderForListing() {
	ctx := context.Background()
	first := suite.newOrder(suite.now)
	second := suite.newOrder(suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	held, err := suite.repository.HasLiveOrderForListing(ctx, suite.listingID, first.ID())
	suite.Require().NoError(err)
	suite.False(held, "an order never blocks itself")

	suite.Require().NoError(suite.repository.Add(ctx, second))
	held, err = suite.repository.HasLiveOrderForListing(ctx, suite.listingID, first.ID())
	suite.Require().NoError(err)
	suite.True(held)

	_, err = second.Cancel(second.BuyerID(), "changed my mind", suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, second))
	held, err = suite.repository.HasLiveOrderForListing(ctx, suite.listingID, first.ID())
	suite.Require().NoError(err)
	suite.False(held, "cancelled orders do not hold the listing")
}

func mustPin(suite *OrderRepositoryIntegrationTestSuite, s string) order.Pin {
	pin, err := order.PinFromString(s)
	suite.Require().NoError(err)
	return pin
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
