// Package limiter enforces per-identifier attempt budgets for the login
// flow using Redis counters. It is optional; when no Redis endpoint is
// configured the services run without it.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/notevault/internal/common"
)

// Config holds limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// Limiter counts failed attempts per key within a cooldown window. A Redis
// outage fails open on Check so the auth flow keeps working, but Fail
// reports the error to the caller's logger path.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
	config Config
}

// New creates a Limiter backed by the given Redis client.
func New(redisClient redis.UniversalClient, prefix string, cfg Config) *Limiter {
	if prefix == "" {
		prefix = "nv"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Minute
	}
	return &Limiter{redis: redisClient, prefix: prefix, config: cfg}
}

func (l *Limiter) key(k string) string {
	return l.prefix + ":" + k
}

// Check returns common.ErrRateLimited when the key has exhausted its
// attempt budget.
func (l *Limiter) Check(ctx context.Context, k string) error {
	count, err := l.redis.Get(ctx, l.key(k)).Int64()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return nil // fail open on backend errors
	}
	if count >= int64(l.config.MaxAttempts) {
		return common.ErrRateLimited
	}
	return nil
}

// Fail records a failed attempt. The first failure starts the cooldown
// window; the window is not extended by later failures.
func (l *Limiter) Fail(ctx context.Context, k string) error {
	key := l.key(k)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("limiter expire: %w", err)
		}
	}
	if count > int64(l.config.MaxAttempts) {
		return common.ErrRateLimited
	}
	return nil
}

// Reset clears the counter for the key. Called after a successful step.
func (l *Limiter) Reset(ctx context.Context, k string) error {
	if err := l.redis.Del(ctx, l.key(k)).Err(); err != nil {
		return fmt.Errorf("limiter del: %w", err)
	}
	return nil
}
