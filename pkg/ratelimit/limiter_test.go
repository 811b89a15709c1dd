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

func TestMemoryLimiter_EleventhUploadRejected(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		d, err := l.Allow(ctx, "upload:u1", UploadRule)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
		now = now.Add(time.Minute)
	}

	d, err := l.Allow(ctx, "upload:u1", UploadRule)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 50*time.Minute, d.RetryAfter)

	// another user is unaffected
	d, err = l.Allow(ctx, "upload:u2", UploadRule)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// fresh window
	now = now.Add(time.Hour)
	d, err = l.Allow(ctx, "upload:u1", UploadRule)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 9, d.Remaining)
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	_, _ = l.Allow(ctx, "a", ProfileUpdateRule)
	now = now.Add(2 * time.Hour)
	_, _ = l.Allow(ctx, "b", ProfileUpdateRule)

	l.Cleanup(time.Hour)
	assert.Len(t, l.windows, 1)
	_, ok := l.windows["b"]
	assert.True(t, ok)
}

func TestRedisLimiter(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	l := NewRedisLimiter(rdb)

	for i := 0; i < ProfileUpdateRule.Limit; i++ {
		d, err := l.Allow(ctx, "profile:u1", ProfileUpdateRule)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, ProfileUpdateRule.Limit-i-1, d.Remaining)
	}

	d, err := l.Allow(ctx, "profile:u1", ProfileUpdateRule)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	srv.FastForward(ProfileUpdateRule.Window)

	d, err = l.Allow(ctx, "profile:u1", ProfileUpdateRule)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
