// Package pinlimit counts pickup PIN attempts per order so a PIN cannot
// be brute-forced. RedisLimiter shares the counters across instances;
// MemoryLimiter keeps them in process for single-node and test setups.
package pinlimit

import (
	"context"
	"fmt"
	"time"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaxAttempts is the number of PIN submissions allowed per order.
	DefaultMaxAttempts = 5

	keyPinAttempts = "lockers:pin_attempts:%s"
)

var _ ports.PinAttemptLimiter = (*RedisLimiter)(nil)

type RedisLimiter struct {
	rdb         *redis.Client
	maxAttempts int
}

func NewRedisLimiter(rdb *redis.Client, maxAttempts int) *RedisLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &RedisLimiter{rdb: rdb, maxAttempts: maxAttempts}
}

// NewRedisClient mirrors the options the rest of the stack uses for redis.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Attempt increments the counter and (re)sets its expiry in one transaction,
// then compares the new count with the budget.
func (l *RedisLimiter) Attempt(ctx context.Context, orderID kernel.UUID, ttl time.Duration) (bool, error) {
	k := key(orderID)
	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count pin attempt: %w", err)
	}
	return incr.Val() <= int64(l.maxAttempts), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, orderID kernel.UUID) error {
	if err := l.rdb.Del(ctx, key(orderID)).Err(); err != nil {
		return fmt.Errorf("reset pin attempts: %w", err)
	}
	return nil
}

func key(orderID kernel.UUID) string {
	return fmt.Sprintf(keyPinAttempts, orderID)
}
