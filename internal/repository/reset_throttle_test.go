package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisResetThrottle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	throttle := NewRedisResetThrottle(client, time.Minute)
	ctx := context.Background()

	ok, err := throttle.Allow(ctx, "Hana@Example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = throttle.Allow(ctx, " hana@example.com ")
	require.NoError(t, err)
	assert.False(t, ok, "same address inside the window is throttled")

	mr.FastForward(time.Minute + time.Second)
	ok, err = throttle.Allow(ctx, "hana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisResetThrottle_Disabled(t *testing.T) {
	throttle := NewRedisResetThrottle(nil, time.Minute)
	ok, err := throttle.Allow(context.Background(), "x@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}
