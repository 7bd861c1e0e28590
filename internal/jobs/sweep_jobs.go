package jobs

import (
	"context"
	"log/slog"
	"time"

	"lockers/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

type expireReservationsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireReservationsCommand) (int, error)
}

type expirePinsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpirePinsCommand) (int, error)
}

// newCron accepts standard five-field specs, an optional seconds field and
// descriptors such as "@every 1m". Runs of the same job never overlap.
func newCron() *cron.Cron {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	return cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

// ReservationTimeoutJob cancels unpaid orders whose payment deadline passed.
type ReservationTimeoutJob struct {
	handler  expireReservationsHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewReservationTimeoutJob(handler expireReservationsHandler, schedule string, logger *slog.Logger) *ReservationTimeoutJob {
	return &ReservationTimeoutJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "reservation_timeout_job"),
	}
}

func (j *ReservationTimeoutJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Reservation timeout job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *ReservationTimeoutJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Reservation timeout job stopped")
}

func (j *ReservationTimeoutJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := j.handler.Handle(ctx, commands.NewExpireReservationsCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Reservation timeout sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Expired unpaid reservations", "count", n)
	}
}

// PinExpiryJob expires orders whose pickup PIN ran out before collection.
type PinExpiryJob struct {
	handler  expirePinsHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPinExpiryJob(handler expirePinsHandler, schedule string, logger *slog.Logger) *PinExpiryJob {
	return &PinExpiryJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "pin_expiry_job"),
	}
}

func (j *PinExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("PIN expiry job started", "schedule", j.schedule)
	return nil
}

func (j *PinExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("PIN expiry job stopped")
}

func (j *PinExpiryJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := j.handler.Handle(ctx, commands.NewExpirePinsCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "PIN expiry sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Expired uncollected orders", "count", n)
	}
}
