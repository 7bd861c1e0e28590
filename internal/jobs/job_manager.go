package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager starts and stops the background work: both sweeps and the
// delivery timers.
type JobManager struct {
	reservationTimeoutJob *ReservationTimeoutJob
	pinExpiryJob          *PinExpiryJob
	deliveryScheduler     *DeliveryScheduler
}

func NewJobManager(
	expireReservationsHandler expireReservationsHandler,
	expirePinsHandler expirePinsHandler,
	deliveryScheduler *DeliveryScheduler,
	sweepSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reservationTimeoutJob: NewReservationTimeoutJob(expireReservationsHandler, sweepSchedule, logger),
		pinExpiryJob:          NewPinExpiryJob(expirePinsHandler, sweepSchedule, logger),
		deliveryScheduler:     deliveryScheduler,
	}
}

// StartAll starts both sweeps. The delivery scheduler needs no start.
func (jm *JobManager) StartAll() error {
	if err := jm.reservationTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start reservation timeout job: %w", err)
	}

	if err := jm.pinExpiryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reservationTimeoutJob.Stop()
		return fmt.Errorf("failed to start pin expiry job: %w", err)
	}

	return nil
}

// StopAll stops the sweeps, then disarms the delivery timers.
func (jm *JobManager) StopAll() {
	jm.reservationTimeoutJob.Stop()
	jm.pinExpiryJob.Stop()
	jm.deliveryScheduler.Stop()
}
