package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter backed by Redis, for deployments
// running more than one process behind a load balancer. It implements the
// same window semantics as FixedWindowLimiter: one counter per
// (key, windowIndex), so counts are shared across processes and survive a
// single process restart.
type RedisLimiter struct {
	client *redis.Client
	policy RatePolicy
	prefix string

	now func() time.Time // overridable for tests
}

// NewRedisLimiter builds a Redis-backed limiter. The prefix names the route
// class so limiters for different routes never share counters.
func NewRedisLimiter(client *redis.Client, prefix string, policy RatePolicy) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		policy: policy,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow increments the windowed counter for key and reports whether the
// request is within the limit. The counter key carries the window index, so
// a new window starts from a fresh counter; expiry is only housekeeping.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	idx := l.now().UnixNano() / int64(l.policy.Window)
	counterKey := fmt.Sprintf("ratelimit:%s:%s:%d", l.prefix, key, idx)

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis limiter incr: %w", err)
	}

	if count == 1 {
		// First hit in this window; expire the counter once the window (plus
		// slack for clock drift) has passed.
		if err := l.client.Expire(ctx, counterKey, l.policy.Window+time.Minute).Err(); err != nil {
			return false, fmt.Errorf("redis limiter expire: %w", err)
		}
	}

	return count <= int64(l.policy.Limit), nil
}
