package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *time.Time) {
	client, _ := setupTestRedis(t)
	l, err := New(Config{Client: client, Limit: limit, Window: window, Prefix: "rl:"})
	require.NoError(t, err)

	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectedErr string
	}{
		{"nil client", Config{Limit: 1, Window: time.Minute}, "redis client is required"},
		{"zero limit", Config{Client: &redis.Client{}, Window: time.Minute}, "limit must be greater than 0"},
		{"negative limit", Config{Client: &redis.Client{}, Limit: -1, Window: time.Minute}, "limit must be greater than 0"},
		{"zero window", Config{Client: &redis.Client{}, Limit: 1}, "window must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestAllow_UpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		info, err := l.Allow(ctx, "chat:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, info.Allowed)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	info, err := l.Allow(ctx, "chat:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	info, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, info.Allowed)

	info, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
}

func TestAllow_WindowSlides(t *testing.T) {
	l, clock := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()
	start := *clock

	_, err := l.Allow(ctx, "k")
	require.NoError(t, err)

	*clock = start.Add(30 * time.Second)
	_, err = l.Allow(ctx, "k")
	require.NoError(t, err)

	info, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, info.Allowed)
	assert.True(t, start.Add(time.Minute).Equal(info.ResetAt), "reset at %s", info.ResetAt)

	// The first request leaves the window; one slot frees up.
	*clock = start.Add(61 * time.Second)
	info, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
}

func TestAllow_ResetAtFromOldestEntry(t *testing.T) {
	l, clock := newTestLimiter(t, 5, time.Minute)
	ctx := context.Background()

	// Whole-second timestamps come back from the server as "1.7776368e+15";
	// odd microseconds exercise the full precision.
	first := clock.Add(123456789 * time.Microsecond)
	*clock = first

	info, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, first.Add(time.Minute).Equal(info.ResetAt), "reset at %s", info.ResetAt)

	*clock = first.Add(10 * time.Second)
	info, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, first.Add(time.Minute).Equal(info.ResetAt), "reset at %s", info.ResetAt)
	assert.Equal(t, 3, info.Remaining)
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, l.Reset(ctx, "k"))

	info, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, info.Allowed)
}
