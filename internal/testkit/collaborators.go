package testkit

import (
	"context"
	"sync"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"
)

// Clock is a kernel.Clock that only moves when told to.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Notifier records every notification. Err, when set, is returned after recording.
type Notifier struct {
	mu   sync.Mutex
	sent []ports.Notification
	Err  error
}

func (n *Notifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.Err
}

func (n *Notifier) Sent() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.sent...)
}

// SentTo returns the locker-channel notification types a user received, in order.
func (n *Notifier) SentTo(userID kernel.UUID) []string {
	var types []string
	for _, msg := range n.Sent() {
		if msg.UserID.IsEqual(userID) && msg.Channel == ports.ChannelLocker {
			types = append(types, msg.Type)
		}
	}
	return types
}

// Points records awards and credits PerAward points for each one.
type Points struct {
	mu       sync.Mutex
	awards   []ports.PointsAward
	PerAward int
	Err      error
}

func (p *Points) Award(_ context.Context, award ports.PointsAward) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.awards = append(p.awards, award)
	if p.Err != nil {
		return 0, p.Err
	}
	return p.PerAward, nil
}

func (p *Points) Awards() []ports.PointsAward {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.PointsAward(nil), p.awards...)
}

// Scheduler records delivery timers without firing them.
type Scheduler struct {
	mu        sync.Mutex
	pending   map[kernel.UUID]int
	scheduled int
	cancelled int
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: map[kernel.UUID]int{}}
}

func (s *Scheduler) Schedule(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[orderID]++
	s.scheduled++
}

func (s *Scheduler) Cancel(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[orderID]; ok {
		delete(s.pending, orderID)
		s.cancelled++
	}
}

// IsPending reports whether the order has an armed timer.
func (s *Scheduler) IsPending(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[orderID]
	return ok
}

// Scheduled counts Schedule calls.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Cancelled counts Cancel calls that disarmed a timer.
func (s *Scheduler) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}
