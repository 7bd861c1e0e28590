package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	httpadapter "lockers/internal/adapters/in/http"
	"lockers/internal/adapters/out/kafka"
	"lockers/internal/adapters/out/lognotify"
	"lockers/internal/adapters/out/pinlimit"
	"lockers/internal/adapters/out/points"
	"lockers/internal/adapters/out/postgres"
	"lockers/internal/core/application/notify"
	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/application/usecases/queries"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/services"
	"lockers/internal/core/ports"
	"lockers/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency and builds the handlers.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger

	events    *notify.Dispatcher
	limiter   ports.PinAttemptLimiter
	points    ports.PointsAwarder
	feePolicy services.DeliveryFeePolicy
	scheduler *jobs.DeliveryScheduler

	kafkaNotifier *kafka.Notifier
	redisClient   *redis.Client
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      kernel.SystemClock{},
		logger:     logger,
	}

	var notifier ports.Notifier
	if len(config.KafkaBrokers) > 0 {
		c.kafkaNotifier = kafka.NewNotifier(kafka.NewWriter(config.KafkaBrokers, logger), kafka.Topics{
			Locker:  config.KafkaLockerTopic,
			General: config.KafkaGeneralTopic,
		})
		notifier = c.kafkaNotifier
	} else {
		logger.Warn("KAFKA_BROKERS is not set, notifications are only logged")
		notifier = lognotify.NewNotifier(logger)
	}
	c.events = notify.NewDispatcher(notifier, logger)

	if config.RedisAddr != "" {
		c.redisClient = pinlimit.NewRedisClient(config.RedisAddr)
		c.limiter = pinlimit.NewRedisLimiter(c.redisClient, config.PinMaxAttempts)
	} else {
		logger.Warn("REDIS_ADDR is not set, PIN attempts are counted in memory")
		c.limiter = pinlimit.NewMemoryLimiter(c.clock, config.PinMaxAttempts)
	}

	if config.PointsServiceURL != "" {
		client, err := points.NewHTTPClient(config.PointsServiceURL, logger)
		if err != nil {
			return nil, err
		}
		c.points = client
	} else {
		logger.Warn("POINTS_SERVICE_URL is not set, no points are awarded")
		c.points = points.Noop{}
	}

	switch config.DeliveryFeePolicy {
	case FeePolicyDistance:
		c.feePolicy = services.NewDistanceFeePolicy(config.FlatDeliveryFee)
	default:
		c.feePolicy = services.NewFlatFeePolicy(config.FlatDeliveryFee)
	}

	c.scheduler = jobs.NewDeliveryScheduler(
		c.CreateCompleteDeliveryCommandHandler(),
		config.DeliveryDelayMin,
		config.DeliveryDelayMax,
		logger,
	)
	return c, nil
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWs() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uows(), c.feePolicy, c.clock, c.config.PaymentWindow, c.events)
}

func (c *CompositionRoot) CreateProcessPaymentCommandHandler() commands.ProcessPaymentCommandHandler {
	return commands.NewProcessPaymentCommandHandler(c.orderUoWs(), c.clock, c.events)
}

func (c *CompositionRoot) CreateSetPickupTimeCommandHandler() commands.SetPickupTimeCommandHandler {
	return commands.NewSetPickupTimeCommandHandler(c.orderUoWs(), c.clock, c.events)
}

func (c *CompositionRoot) CreateConfirmRiderPickupCommandHandler() commands.ConfirmRiderPickupCommandHandler {
	return commands.NewConfirmRiderPickupCommandHandler(c.uows(), c.clock, c.scheduler, c.events)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.orderUoWs(), c.clock, c.config.PinTTL, c.events, c.logger)
}

func (c *CompositionRoot) CreateVerifyPinCommandHandler() commands.VerifyPinCommandHandler {
	return commands.NewVerifyPinCommandHandler(c.uows(), c.clock, c.limiter, c.points, c.events, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uows(), c.clock, c.scheduler, c.events)
}

func (c *CompositionRoot) CreateExpireReservationsCommandHandler() commands.ExpireReservationsCommandHandler {
	return commands.NewExpireReservationsCommandHandler(c.uows(), c.clock, c.events, c.logger)
}

func (c *CompositionRoot) CreateExpirePinsCommandHandler() commands.ExpirePinsCommandHandler {
	return commands.NewExpirePinsCommandHandler(c.uows(), c.clock, c.events, c.logger)
}

func (c *CompositionRoot) CreateRequeuePendingDeliveriesCommandHandler() commands.RequeuePendingDeliveriesCommandHandler {
	return commands.NewRequeuePendingDeliveriesCommandHandler(c.orderUoWs(), c.scheduler, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListActiveLockersQueryHandler() queries.ListActiveLockersQueryHandler {
	return queries.NewListActiveLockersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireReservationsCommandHandler(),
		c.CreateExpirePinsCommandHandler(),
		c.scheduler,
		c.config.SweepSchedule,
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateProcessPaymentCommandHandler(),
		c.CreateSetPickupTimeCommandHandler(),
		c.CreateConfirmRiderPickupCommandHandler(),
		c.CreateVerifyPinCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListActiveLockersQueryHandler(),
		c.logger,
	)
}

// Close releases the external clients. Jobs must be stopped first.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.kafkaNotifier != nil {
		if err := c.kafkaNotifier.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close kafka writer: %w", err))
		}
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close redis client: %w", err))
		}
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errList...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
