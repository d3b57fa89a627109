package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryRateLimiter()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	first := limiter.Allow(ctx, "ip:10.0.0.1", 2, time.Minute)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, now.Add(time.Minute), first.WindowEnd)

	assert.True(t, limiter.Allow(ctx, "ip:10.0.0.1", 2, time.Minute).Allowed)
	blocked := limiter.Allow(ctx, "ip:10.0.0.1", 2, time.Minute)
	assert.False(t, blocked.Allowed)
	assert.Equal(t, 3, blocked.Count)

	// other clients keep their own window
	assert.True(t, limiter.Allow(ctx, "ip:10.0.0.2", 2, time.Minute).Allowed)

	now = now.Add(time.Minute)
	reset := limiter.Allow(ctx, "ip:10.0.0.1", 2, time.Minute)
	assert.True(t, reset.Allowed)
	assert.Equal(t, 1, reset.Count)
}

func TestMemoryRateLimiter_PrunesExpiredWindows(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	limiter := NewMemoryRateLimiter()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	limiter.Allow(ctx, "a", 5, time.Minute)
	limiter.Allow(ctx, "b", 5, time.Minute)
	now = now.Add(2 * time.Minute)
	limiter.Allow(ctx, "c", 5, time.Minute)

	assert.Len(t, limiter.entries, 1)
}

func TestMemoryRateLimiter_ZeroLimitAllows(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	for range 10 {
		assert.True(t, limiter.Allow(context.Background(), "a", 0, time.Minute).Allowed)
	}
	assert.Empty(t, limiter.entries)
}
