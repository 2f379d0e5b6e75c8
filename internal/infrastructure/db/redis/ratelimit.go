package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements a fixed-window request counter backed by Redis.
// Key format: ratelimit:<client key>. The first request in a window creates
// the counter with the window TTL; subsequent requests increment it.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLimiter creates a Limiter allowing limit requests per window per key.
func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow records a request for key and reports whether it is within quota.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "ratelimit:" + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return n <= int64(l.limit), nil
}
