package listingrepo_test

import (
	"context"
	"testing"

	"lockers/internal/adapters/out/postgres/listingrepo"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"
	"lockers/internal/pkg/errs"
	"lockers/internal/testkit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type ListingRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *testkit.Postgres
	repository *listingrepo.GormListingRepository
}

func (suite *ListingRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := testkit.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.repository = listingrepo.NewGormListingRepository(pg.DB, noopTracker{})
}

func (suite *ListingRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *ListingRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *ListingRepositoryIntegrationTestSuite) newListing(co2 *decimal.Decimal) *listing.Listing {
	pickup, err := kernel.NewCoordinates(52.52, 13.405)
	suite.Require().NoError(err)
	lst, err := listing.NewListing(kernel.NewUUID(), kernel.NewUUID(), "Oak bookshelf",
		decimal.RequireFromString("10.00"), co2, pickup)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), lst))
	return lst
}

func (suite *ListingRepositoryIntegrationTestSuite) TestAddAndGet() {
	co2 := decimal.RequireFromString("4.25")
	lst := suite.newListing(&co2)

	got, err := suite.repository.Get(context.Background(), lst.ID())

	suite.Require().NoError(err)
	suite.Equal(lst.SellerID(), got.SellerID())
	suite.Equal("Oak bookshelf", got.Title())
	suite.True(decimal.RequireFromString("10.00").Equal(got.Price()))
	suite.Equal(listing.Active, got.Status())
	suite.Nil(got.BuyerID())
	saved, ok := got.CO2Saved()
	suite.True(ok)
	suite.True(co2.Equal(saved))
	pickup, ok := got.Pickup()
	suite.True(ok)
	suite.InDelta(13.405, pickup.Longitude(), 1e-9)
}

func (suite *ListingRepositoryIntegrationTestSuite) TestReserveThenRelease() {
	ctx := context.Background()
	lst := suite.newListing(nil)
	buyerID := kernel.NewUUID()

	locked, err := suite.repository.GetForUpdate(ctx, lst.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(locked.Reserve(buyerID))
	suite.Require().NoError(suite.repository.Update(ctx, locked))

	reserved, err := suite.repository.Get(ctx, lst.ID())
	suite.Require().NoError(err)
	suite.Equal(listing.Reserved, reserved.Status())
	suite.Require().NotNil(reserved.BuyerID())
	suite.Equal(buyerID, *reserved.BuyerID())
	_, hasCO2 := reserved.CO2Saved()
	suite.False(hasCO2)

	suite.Require().True(reserved.Release(buyerID))
	suite.Require().NoError(suite.repository.Update(ctx, reserved))

	released, err := suite.repository.Get(ctx, lst.ID())
	suite.Require().NoError(err)
	suite.Equal(listing.Active, released.Status())
	suite.Nil(released.BuyerID())
}

func (suite *ListingRepositoryIntegrationTestSuite) TestNotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	ghost, err := listing.NewListing(kernel.NewUUID(), kernel.NewUUID(), "Lamp",
		decimal.RequireFromString("5.00"), nil, kernel.Coordinates{})
	suite.Require().NoError(err)
	suite.ErrorIs(suite.repository.Update(ctx, ghost), errs.ErrObjectNotFound)
}

func TestListingRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ListingRepositoryIntegrationTestSuite))
}
