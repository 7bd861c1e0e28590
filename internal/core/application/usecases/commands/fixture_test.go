package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"lockers/internal/adapters/out/pinlimit"
	"lockers/internal/core/application/notify"
	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/core/domain/services"
	"lockers/internal/testkit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	paymentWindow = 30 * time.Minute
	pinTTL        = 24 * time.Hour
	maxPinTries   = 5
)

var startTime = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// env wires every handler to one in-memory store, the way the composition
// root wires them to postgres.
type env struct {
	store     *testkit.Store
	clock     *testkit.Clock
	notifier  *testkit.Notifier
	points    *testkit.Points
	scheduler *testkit.Scheduler
	limiter   *pinlimit.MemoryLimiter

	sellerID kernel.UUID
	buyerID  kernel.UUID
	lockerID kernel.UUID

	create   commands.CreateOrderCommandHandler
	pay      commands.ProcessPaymentCommandHandler
	schedule commands.SetPickupTimeCommandHandler
	handOver commands.ConfirmRiderPickupCommandHandler
	deliver  commands.CompleteDeliveryCommandHandler
	verify   commands.VerifyPinCommandHandler
	cancel   commands.CancelOrderCommandHandler
	expire   commands.ExpireReservationsCommandHandler
	expPins  commands.ExpirePinsCommandHandler
	requeue  commands.RequeuePendingDeliveriesCommandHandler
}

func newEnv(t *testing.T, compartments int) *env {
	t.Helper()

	e := &env{
		store:     testkit.NewStore(),
		clock:     testkit.NewClock(startTime),
		notifier:  &testkit.Notifier{},
		points:    &testkit.Points{PerAward: 10},
		scheduler: testkit.NewScheduler(),
		sellerID:  kernel.NewUUID(),
		buyerID:   kernel.NewUUID(),
		lockerID:  kernel.NewUUID(),
	}
	e.limiter = pinlimit.NewMemoryLimiter(e.clock, maxPinTries)

	location, err := kernel.NewCoordinates(52.5251, 13.3694)
	require.NoError(t, err)
	lck, err := locker.NewLocker(e.lockerID, "Central Station", "Europaplatz 1", location, compartments)
	require.NoError(t, err)
	e.store.PutLocker(lck)

	logger := discardLogger()
	events := notify.NewDispatcher(e.notifier, logger)
	uows := e.store.UoWFactory()
	orderUoWs := e.store.OrderUoWFactory()
	fee := services.NewFlatFeePolicy(services.DefaultFlatFee)

	e.create = commands.NewCreateOrderCommandHandler(uows, fee, e.clock, paymentWindow, events)
	e.pay = commands.NewProcessPaymentCommandHandler(orderUoWs, e.clock, events)
	e.schedule = commands.NewSetPickupTimeCommandHandler(orderUoWs, e.clock, events)
	e.handOver = commands.NewConfirmRiderPickupCommandHandler(uows, e.clock, e.scheduler, events)
	e.deliver = commands.NewCompleteDeliveryCommandHandler(orderUoWs, e.clock, pinTTL, events, logger)
	e.verify = commands.NewVerifyPinCommandHandler(uows, e.clock, e.limiter, e.points, events, logger)
	e.cancel = commands.NewCancelOrderCommandHandler(uows, e.clock, e.scheduler, events)
	e.expire = commands.NewExpireReservationsCommandHandler(uows, e.clock, events, logger)
	e.expPins = commands.NewExpirePinsCommandHandler(uows, e.clock, events, logger)
	e.requeue = commands.NewRequeuePendingDeliveriesCommandHandler(orderUoWs, e.scheduler, logger)

	return e
}

// newListing stores an active listing of the env's seller priced at 10.00.
func (e *env) newListing(t *testing.T, co2Saved *decimal.Decimal) kernel.UUID {
	t.Helper()
	id := kernel.NewUUID()
	lst, err := listing.NewListing(id, e.sellerID, "Oak bookshelf", decimal.RequireFromString("10.00"),
		co2Saved, kernel.Coordinates{})
	require.NoError(t, err)
	e.store.PutListing(lst)
	return id
}

func (e *env) tryCreate(t *testing.T, listingID, buyerID kernel.UUID) (kernel.UUID, error) {
	t.Helper()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, listingID, e.lockerID, buyerID)
	require.NoError(t, err)
	return orderID, e.create.Handle(t.Context(), cmd)
}

// reserve creates an order for a fresh listing and returns both ids.
func (e *env) reserve(t *testing.T) (orderID, listingID kernel.UUID) {
	t.Helper()
	listingID = e.newListing(t, nil)
	orderID, err := e.tryCreate(t, listingID, e.buyerID)
	require.NoError(t, err)
	return orderID, listingID
}

func (e *env) payOrder(t *testing.T, orderID kernel.UUID) {
	t.Helper()
	cmd, err := commands.NewProcessPaymentCommand(orderID, e.buyerID)
	require.NoError(t, err)
	require.NoError(t, e.pay.Handle(t.Context(), cmd))
}

func (e *env) schedulePickup(t *testing.T, orderID kernel.UUID) {
	t.Helper()
	cmd, err := commands.NewSetPickupTimeCommand(orderID, e.sellerID, e.clock.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, e.schedule.Handle(t.Context(), cmd))
}

func (e *env) handToRider(t *testing.T, orderID kernel.UUID) {
	t.Helper()
	cmd, err := commands.NewConfirmRiderPickupCommand(orderID, e.sellerID)
	require.NoError(t, err)
	require.NoError(t, e.handOver.Handle(t.Context(), cmd))
}

func (e *env) completeDelivery(t *testing.T, orderID kernel.UUID) {
	t.Helper()
	cmd, err := commands.NewCompleteDeliveryCommand(orderID)
	require.NoError(t, err)
	require.NoError(t, e.deliver.Handle(t.Context(), cmd))
}

func (e *env) verifyPin(t *testing.T, orderID kernel.UUID, pin string) (commands.VerifyPinResult, error) {
	t.Helper()
	cmd, err := commands.NewVerifyPinCommand(orderID, e.buyerID, pin)
	require.NoError(t, err)
	return e.verify.Handle(t.Context(), cmd)
}

func (e *env) cancelBy(t *testing.T, orderID, userID kernel.UUID, reason string) error {
	t.Helper()
	cmd, err := commands.NewCancelOrderCommand(orderID, userID, reason)
	require.NoError(t, err)
	return e.cancel.Handle(t.Context(), cmd)
}

// advanceTo drives a fresh order up to the wanted status.
func (e *env) advanceTo(t *testing.T, orderID kernel.UUID, status order.Status) {
	t.Helper()
	steps := []struct {
		reached order.Status
		run     func(*testing.T, kernel.UUID)
	}{
		{order.Paid, e.payOrder},
		{order.PickupScheduled, e.schedulePickup},
		{order.InTransit, e.handToRider},
		{order.ReadyForPickup, e.completeDelivery},
	}
	for _, step := range steps {
		if e.order(t, orderID).Status() == status {
			return
		}
		step.run(t, orderID)
	}
	require.Equal(t, status, e.order(t, orderID).Status())
}

func (e *env) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := e.store.Order(id)
	require.NoError(t, err)
	return o
}

func (e *env) locker(t *testing.T) *locker.Locker {
	t.Helper()
	l, err := e.store.Locker(e.lockerID)
	require.NoError(t, err)
	return l
}

func (e *env) listing(t *testing.T, id kernel.UUID) *listing.Listing {
	t.Helper()
	l, err := e.store.Listing(id)
	require.NoError(t, err)
	return l
}

func (e *env) pin(t *testing.T, orderID kernel.UUID) string {
	t.Helper()
	pin, ok := e.order(t, orderID).PickupPin()
	require.True(t, ok)
	return pin.String()
}
