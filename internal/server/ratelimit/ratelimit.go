// Package ratelimit throttles requests per client key.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether one more request for key fits in the budget.
type Limiter interface {
	// Allow reports whether the request may proceed. A non-nil error means
	// the backing store failed; the request is then allowed.
	Allow(ctx context.Context, key string) (bool, error)
}

// Nop allows everything.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }

// counter is the part of *redis.Client the limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter is a fixed-window counter. Every hit increments the key and
// sets its TTL unless one is already set.
type RedisLimiter struct {
	rdb    counter
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return newRedisLimiter(rdb, prefix, limit, window)
}

func newRedisLimiter(rdb counter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}

	if err := l.rdb.ExpireNX(ctx, k, l.window).Err(); err != nil {
		return true, fmt.Errorf("rate limit expire: %w", err)
	}

	return count <= l.limit, nil
}
