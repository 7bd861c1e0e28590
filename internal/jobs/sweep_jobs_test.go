package jobs

import (
	"context"
	"errors"
	"testing"

	"lockers/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweep struct {
	calls int
	n     int
	err   error
}

func (s *countingSweep) sweep(ctx context.Context) (int, error) {
	s.calls++
	if deadline, ok := ctx.Deadline(); !ok || deadline.IsZero() {
		return 0, errors.New("sweep context has no deadline")
	}
	return s.n, s.err
}

type reservationsSweep struct{ *countingSweep }

func (s reservationsSweep) Handle(ctx context.Context, cmd commands.ExpireReservationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return s.sweep(ctx)
}

type pinsSweep struct{ *countingSweep }

func (s pinsSweep) Handle(ctx context.Context, cmd commands.ExpirePinsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return s.sweep(ctx)
}

func TestReservationTimeoutJob_Run(t *testing.T) {
	sweep := &countingSweep{n: 2}
	job := NewReservationTimeoutJob(reservationsSweep{sweep}, "@every 1m", discardLogger())

	job.run()
	sweep.err = errors.New("database is down")
	job.run()

	assert.Equal(t, 2, sweep.calls)
}

func TestPinExpiryJob_Run(t *testing.T) {
	sweep := &countingSweep{}
	job := NewPinExpiryJob(pinsSweep{sweep}, "@every 1m", discardLogger())

	job.run()

	assert.Equal(t, 1, sweep.calls)
}

func TestSweepJobs_StartStop(t *testing.T) {
	for _, schedule := range []string{"@every 1m", "*/5 * * * *", "0 */5 * * * *"} {
		job := NewPinExpiryJob(pinsSweep{&countingSweep{}}, schedule, discardLogger())
		require.NoError(t, job.Start(), schedule)
		job.Stop()
	}
}

func TestJobManager_StartAll_InvalidSchedule(t *testing.T) {
	scheduler := NewDeliveryScheduler(newRecordingDeliveryHandler(), 0, 0, discardLogger())
	jm := NewJobManager(reservationsSweep{&countingSweep{}}, pinsSweep{&countingSweep{}}, scheduler,
		"not a schedule", discardLogger())

	err := jm.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reservation timeout job")
}

func TestJobManager_StartAll_StopAll(t *testing.T) {
	scheduler := NewDeliveryScheduler(newRecordingDeliveryHandler(), 0, 0, discardLogger())
	jm := NewJobManager(reservationsSweep{&countingSweep{}}, pinsSweep{&countingSweep{}}, scheduler,
		"@every 1h", discardLogger())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
	assert.Equal(t, 0, scheduler.Pending())
}
