package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingDeliveryHandler struct {
	mu        sync.Mutex
	delivered []kernel.UUID
	done      chan kernel.UUID
}

func newRecordingDeliveryHandler() *recordingDeliveryHandler {
	return &recordingDeliveryHandler{done: make(chan kernel.UUID, 16)}
}

func (h *recordingDeliveryHandler) Handle(_ context.Context, cmd commands.CompleteDeliveryCommand) error {
	h.mu.Lock()
	h.delivered = append(h.delivered, cmd.OrderID())
	h.mu.Unlock()
	h.done <- cmd.OrderID()
	return nil
}

func (h *recordingDeliveryHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.delivered)
}

func TestDeliveryScheduler_Schedule_CompletesDelivery(t *testing.T) {
	h := newRecordingDeliveryHandler()
	s := NewDeliveryScheduler(h, 5*time.Millisecond, 20*time.Millisecond, discardLogger())
	defer s.Stop()
	orderID := kernel.NewUUID()

	s.Schedule(orderID)

	select {
	case got := <-h.done:
		assert.Equal(t, orderID, got)
	case <-time.After(2 * time.Second):
		t.Fatal("delivery was not completed")
	}
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestDeliveryScheduler_Cancel_PreventsDelivery(t *testing.T) {
	h := newRecordingDeliveryHandler()
	s := NewDeliveryScheduler(h, 50*time.Millisecond, 50*time.Millisecond, discardLogger())
	defer s.Stop()
	orderID := kernel.NewUUID()

	s.Schedule(orderID)
	require.Equal(t, 1, s.Pending())
	s.Cancel(orderID)

	assert.Equal(t, 0, s.Pending())
	assert.Never(t, func() bool { return h.count() > 0 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestDeliveryScheduler_Schedule_ReplacesTimer(t *testing.T) {
	h := newRecordingDeliveryHandler()
	s := NewDeliveryScheduler(h, 30*time.Millisecond, 30*time.Millisecond, discardLogger())
	defer s.Stop()
	orderID := kernel.NewUUID()

	s.Schedule(orderID)
	s.Schedule(orderID)
	require.Equal(t, 1, s.Pending())

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery was not completed")
	}
	assert.Never(t, func() bool { return h.count() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestDeliveryScheduler_Stop_DisarmsEverything(t *testing.T) {
	h := newRecordingDeliveryHandler()
	s := NewDeliveryScheduler(h, 50*time.Millisecond, 50*time.Millisecond, discardLogger())

	s.Schedule(kernel.NewUUID())
	s.Schedule(kernel.NewUUID())
	s.Stop()
	s.Schedule(kernel.NewUUID())

	assert.Equal(t, 0, s.Pending())
	assert.Never(t, func() bool { return h.count() > 0 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestDeliveryScheduler_Delay_WithinBounds(t *testing.T) {
	s := NewDeliveryScheduler(newRecordingDeliveryHandler(), time.Hour, 3*time.Hour, discardLogger())

	for range 100 {
		d := s.delay()
		assert.GreaterOrEqual(t, d, time.Hour)
		assert.LessOrEqual(t, d, 3*time.Hour)
	}

	fixed := NewDeliveryScheduler(newRecordingDeliveryHandler(), time.Hour, time.Minute, discardLogger())
	assert.Equal(t, time.Hour, fixed.delay())
}
