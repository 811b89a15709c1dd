package mem

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTokens_ConsumeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewLoginTokens()

	require.NoError(t, store.Set(ctx, "abc", "me@example.com", time.Minute))

	email, err := store.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", email)

	email, err = store.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestLoginTokens_Expired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	store := NewLoginTokens()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "abc", "me@example.com", 15*time.Minute))
	now = now.Add(16 * time.Minute)

	email, err := store.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestRedisTokens(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	store := NewRedisTokens(rdb)

	require.NoError(t, store.Set(ctx, "tok", "me@example.com", time.Minute))
	assert.True(t, srv.Exists(tokenKeyPrefix+"tok"))

	email, err := store.Consume(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", email)

	email, err = store.Consume(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, store.Set(ctx, "short", "me@example.com", time.Second))
	srv.FastForward(2 * time.Second)
	email, err = store.Consume(ctx, "short")
	require.NoError(t, err)
	assert.Empty(t, email)
}
