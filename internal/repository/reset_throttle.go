package repository

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetThrottlePrefix = "pwreset:throttle:"

// ResetThrottle limits how often a reset mail can be requested per address.
type ResetThrottle interface {
	// Allow reports whether a new reset may be issued for email and, if so,
	// blocks further ones for the throttle window.
	Allow(ctx context.Context, email string) (bool, error)
}

type redisResetThrottle struct {
	client redis.Cmdable
	window time.Duration
}

// NewRedisResetThrottle returns a SETNX-based throttle. A zero window disables it.
func NewRedisResetThrottle(client redis.Cmdable, window time.Duration) ResetThrottle {
	return &redisResetThrottle{client: client, window: window}
}

func (t *redisResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if t.client == nil || t.window <= 0 {
		return true, nil
	}
	key := resetThrottlePrefix + strings.ToLower(strings.TrimSpace(email))
	return t.client.SetNX(ctx, key, 1, t.window).Result()
}
