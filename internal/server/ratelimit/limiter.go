// Package ratelimit implements the fixed-window counter that gates login
// attempts per client address. The window never slides: the expiry is set
// when the first attempt creates the counter and is not extended afterwards,
// so Redis TTL eviction alone resets the count.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_attempts:"

// redisAPI is the subset of *redis.Client used by the limiter.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Limiter counts login attempts per client address over a fixed window.
type Limiter struct {
	rdb    redisAPI
	max    int
	window time.Duration
}

// NewLimiter constructs a Limiter allowing max attempts per window.
func NewLimiter(rdb *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, max: max, window: window}
}

// Allow records one attempt from addr and reports whether it is permitted.
// The first attempt in a window creates the counter with the window's TTL;
// attempts below the limit increment it without touching the TTL; attempts
// at the limit are rejected without incrementing. A store error is returned
// so the caller fails closed.
func (l *Limiter) Allow(ctx context.Context, addr string) (bool, error) {
	key := keyPrefix + addr

	count, err := l.rdb.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			if err := l.rdb.Set(ctx, key, 1, l.window).Err(); err != nil {
				return false, fmt.Errorf("rate limit init: %w", err)
			}
			return true, nil
		}
		return false, fmt.Errorf("rate limit lookup: %w", err)
	}

	if count < l.max {
		if err := l.rdb.Incr(ctx, key).Err(); err != nil {
			return false, fmt.Errorf("rate limit incr: %w", err)
		}
		return true, nil
	}

	return false, nil
}
