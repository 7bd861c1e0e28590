package pinlimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lockers/internal/adapters/out/pinlimit"
	"lockers/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisLimiterIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
	limiter   *pinlimit.RedisLimiter
}

func (suite *RedisLimiterIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.rdb = pinlimit.NewRedisClient(endpoint)
	suite.Require().NoError(suite.rdb.Ping(ctx).Err())
	suite.limiter = pinlimit.NewRedisLimiter(suite.rdb, 2)
}

func (suite *RedisLimiterIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.rdb.FlushAll(context.Background()).Err())
}

func (suite *RedisLimiterIntegrationTestSuite) TearDownSuite() {
	if suite.rdb != nil {
		_ = suite.rdb.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisLimiterIntegrationTestSuite) TestLockoutAfterMaxAttempts() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	for range 2 {
		allowed, err := suite.limiter.Attempt(ctx, orderID, time.Minute)
		suite.Require().NoError(err)
		suite.True(allowed)
	}

	allowed, err := suite.limiter.Attempt(ctx, orderID, time.Minute)
	suite.Require().NoError(err)
	suite.False(allowed)

	ttl, err := suite.rdb.TTL(ctx, "lockers:pin_attempts:"+orderID.String()).Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *RedisLimiterIntegrationTestSuite) TestConcurrentAttemptsStayWithinBudget() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := suite.limiter.Attempt(ctx, orderID, time.Minute)
			suite.NoError(err)
			if ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(2), allowed.Load())
}

func (suite *RedisLimiterIntegrationTestSuite) TestReset() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	for range 3 {
		_, err := suite.limiter.Attempt(ctx, orderID, time.Minute)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(suite.limiter.Reset(ctx, orderID))

	allowed, err := suite.limiter.Attempt(ctx, orderID, time.Minute)
	suite.Require().NoError(err)
	suite.True(allowed)
}

func TestRedisLimiterIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterIntegrationTestSuite))
}
