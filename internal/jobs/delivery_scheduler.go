package jobs

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/kernel"
)

const deliveryTimeout = 30 * time.Second

type completeDeliveryHandler interface {
	Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) error
}

type pendingDelivery struct {
	timer *time.Timer
	seq   uint64
}

// DeliveryScheduler simulates the courier: after a random delay in
// [minDelay, maxDelay] it completes the delivery of an order handed to a
// rider. Timers live in memory only; after a restart they are rebuilt from
// the orders still in transit.
type DeliveryScheduler struct {
	handler  completeDeliveryHandler
	minDelay time.Duration
	maxDelay time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[kernel.UUID]pendingDelivery
	seq     uint64
	stopped bool
	running sync.WaitGroup
}

func NewDeliveryScheduler(
	handler completeDeliveryHandler,
	minDelay, maxDelay time.Duration,
	logger *slog.Logger,
) *DeliveryScheduler {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &DeliveryScheduler{
		handler:  handler,
		minDelay: minDelay,
		maxDelay: maxDelay,
		logger:   logger.With("component", "delivery_scheduler"),
		pending:  make(map[kernel.UUID]pendingDelivery),
	}
}

// Schedule arms a timer for the order, replacing any existing one.
func (s *DeliveryScheduler) Schedule(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if p, ok := s.pending[orderID]; ok {
		p.timer.Stop()
	}

	s.seq++
	seq := s.seq
	delay := s.delay()
	s.pending[orderID] = pendingDelivery{
		timer: time.AfterFunc(delay, func() { s.fire(orderID, seq) }),
		seq:   seq,
	}
	s.logger.Debug("delivery scheduled", "order_id", orderID.String(), "delay", delay.String())
}

// Cancel disarms the order's timer. A delivery already running is not interrupted.
func (s *DeliveryScheduler) Cancel(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[orderID]; ok {
		p.timer.Stop()
		delete(s.pending, orderID)
	}
}

// Pending returns the number of armed timers.
func (s *DeliveryScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop disarms every timer and waits for running deliveries to finish.
// Schedule is a no-op afterwards.
func (s *DeliveryScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.running.Wait()
	s.logger.Info("delivery scheduler stopped")
}

func (s *DeliveryScheduler) fire(orderID kernel.UUID, seq uint64) {
	s.mu.Lock()
	p, ok := s.pending[orderID]
	if !ok || p.seq != seq || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, orderID)
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	cmd, err := commands.NewCompleteDeliveryCommand(orderID)
	if err != nil {
		s.logger.Error("invalid delivery command", "order_id", orderID.String(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err = s.handler.Handle(ctx, cmd); err != nil {
		s.logger.ErrorContext(ctx, "delivery completion failed", "order_id", orderID.String(), "error", err)
	}
}

func (s *DeliveryScheduler) delay() time.Duration {
	spread := s.maxDelay - s.minDelay
	if spread <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(rand.Int64N(int64(spread)+1))
}
