// Package jobs provides the background work of the locker order service.
//
// # Available Jobs
//
// 1. ReservationTimeoutJob - cancels unpaid orders past their payment deadline
// 2. PinExpiryJob - expires delivered orders whose pickup PIN ran out
// 3. DeliveryScheduler - one-shot in-memory timers that complete a delivery
// a random delay after the rider took the item
//
// Both sweeps run on github.com/robfig/cron/v3 with a configurable schedule
// (SWEEP_SCHEDULE, "@every 1m" by default). A sweep that is still running
// when its next tick fires is skipped.
//
// # Usage
//
//	scheduler := jobs.NewDeliveryScheduler(completeDeliveryHandler, time.Hour, 3*time.Hour, logger)
//	jobManager := jobs.NewJobManager(expireReservationsHandler, expirePinsHandler, scheduler, "@every 1m", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Delivery timers do not survive a restart. At boot the composition root
// runs RequeuePendingDeliveries, which schedules every order still in transit.
//
// # Error Handling
//
// - sweeps log failures and wait for the next tick
// - a failed delivery completion is logged; the order stays in transit until
// the next requeue
// - failed job starts stop any already running jobs
package jobs
