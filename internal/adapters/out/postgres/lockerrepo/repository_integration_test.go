package lockerrepo_test

import (
	"context"
	"testing"

	"lockers/internal/adapters/out/postgres/lockerrepo"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/pkg/errs"
	"lockers/internal/testkit"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type LockerRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *testkit.Postgres
	repository *lockerrepo.GormLockerRepository
}

func (suite *LockerRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := testkit.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.repository = lockerrepo.NewGormLockerRepository(pg.DB, noopTracker{})
}

func (suite *LockerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *LockerRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *LockerRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	location, err := kernel.NewCoordinates(52.5251, 13.3694)
	suite.Require().NoError(err)
	lck, err := locker.NewLocker(kernel.NewUUID(), "Central Station", "Europaplatz 1", location, 12)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, lck))

	got, err := suite.repository.Get(ctx, lck.ID())
	suite.Require().NoError(err)
	suite.Equal("Central Station", got.Name())
	suite.Equal("Europaplatz 1", got.Address())
	suite.InDelta(52.5251, got.Location().Latitude(), 1e-9)
	suite.Equal(12, got.TotalCompartments())
	suite.Equal(12, got.AvailableCompartments())
	suite.True(got.IsActive())
	suite.Len(got.Compartments(), 12)
	for i, c := range got.Compartments() {
		suite.Equal(i+1, c.Number())
		suite.False(c.IsOccupied())
	}
}

func (suite *LockerRepositoryIntegrationTestSuite) TestUpdate_ReserveOccupyRelease() {
	ctx := context.Background()
	lck, err := locker.NewLocker(kernel.NewUUID(), "Mall", "", kernel.Coordinates{}, 3)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, lck))

	orderID := kernel.NewUUID()
	suite.Require().NoError(lck.Reserve())
	number, err := lck.Occupy(orderID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, lck))

	got, err := suite.repository.GetForUpdate(ctx, lck.ID())
	suite.Require().NoError(err)
	suite.False(got.HasLocation())
	suite.Equal(2, got.AvailableCompartments())
	held, ok := got.CompartmentOf(orderID)
	suite.True(ok)
	suite.Equal(number, held)

	suite.Require().NoError(got.Release(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, got))

	released, err := suite.repository.Get(ctx, lck.ID())
	suite.Require().NoError(err)
	suite.Equal(3, released.AvailableCompartments())
	suite.Equal(0, released.OccupiedCompartments())
}

// countCompartmentWrites counts UPDATE statements on locker_compartments
// issued while fn runs.
func (suite *LockerRepositoryIntegrationTestSuite) countCompartmentWrites(fn func()) int {
	const name = "lockerrepo_test:count_compartment_writes"
	writes := 0
	err := suite.pg.DB.Callback().Update().After("gorm:update").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == "locker_compartments" {
			writes++
		}
	})
	suite.Require().NoError(err)
	defer func() {
		suite.Require().NoError(suite.pg.DB.Callback().Update().Remove(name))
	}()

	fn()
	return writes
}

func (suite *LockerRepositoryIntegrationTestSuite) TestUpdate_WritesOnlyChangedCompartments() {
	ctx := context.Background()
	lck, err := locker.NewLocker(kernel.NewUUID(), "Mall", "", kernel.Coordinates{}, 12)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, lck))

	suite.Require().NoError(lck.Reserve())
	writes := suite.countCompartmentWrites(func() {
		suite.Require().NoError(suite.repository.Update(ctx, lck))
	})
	suite.Zero(writes, "reserving touches no compartment")

	orderID := kernel.NewUUID()
	_, err = lck.Occupy(orderID)
	suite.Require().NoError(err)
	writes = suite.countCompartmentWrites(func() {
		suite.Require().NoError(suite.repository.Update(ctx, lck))
	})
	suite.Equal(1, writes)

	got, err := suite.repository.Get(ctx, lck.ID())
	suite.Require().NoError(err)
	suite.Equal(1, got.OccupiedCompartments())
	suite.Equal(11, got.AvailableCompartments())
}

func (suite *LockerRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	lck, err := locker.NewLocker(kernel.NewUUID(), "Ghost", "", kernel.Coordinates{}, 1)
	suite.Require().NoError(err)
	suite.Require().ErrorIs(suite.repository.Update(context.Background(), lck), errs.ErrObjectNotFound)
}

func TestLockerRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LockerRepositoryIntegrationTestSuite))
}
