package pinlimit

import (
	"context"
	"sync"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"
)

var _ ports.PinAttemptLimiter = (*MemoryLimiter)(nil)

// purgeEvery is how many attempts pass between sweeps of expired counters.
const purgeEvery = 256

type attempts struct {
	count     int
	expiresAt time.Time
}

type MemoryLimiter struct {
	mu          sync.Mutex
	clock       kernel.Clock
	maxAttempts int
	byOrder     map[kernel.UUID]attempts
	sincePurge  int
}

func NewMemoryLimiter(clock kernel.Clock, maxAttempts int) *MemoryLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &MemoryLimiter{
		clock:       clock,
		maxAttempts: maxAttempts,
		byOrder:     make(map[kernel.UUID]attempts),
	}
}

func (l *MemoryLimiter) Attempt(_ context.Context, orderID kernel.UUID, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.sincePurge++
	if l.sincePurge >= purgeEvery {
		l.purge(now)
	}

	a, ok := l.byOrder[orderID]
	if !ok || !now.Before(a.expiresAt) {
		a = attempts{}
	}
	a.count++
	a.expiresAt = now.Add(ttl)
	l.byOrder[orderID] = a
	return a.count <= l.maxAttempts, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, orderID kernel.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byOrder, orderID)
	return nil
}

// Len reports how many orders currently have a counter.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byOrder)
}

func (l *MemoryLimiter) purge(now time.Time) {
	for id, a := range l.byOrder {
		if !now.Before(a.expiresAt) {
			delete(l.byOrder, id)
		}
	}
	l.sincePurge = 0
}
