package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdempotencyFirstRequestReservesKey(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, _, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute)
	require.NoError(t, err)
	require.False(t, exists, "first request must reserve the key")

	// Replay before the response is stored sees the reservation.
	exists, existing, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "processing", string(existing))
}

func TestIdempotencyReplayReturnsStoredResponse(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	response := []byte(`{"movement_id":"01J"}`)

	_, _, err := store.CheckAndSet(ctx, "req-2", nil, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "req-2", response, time.Minute))

	exists, existing, err := store.CheckAndSet(ctx, "req-2", nil, time.Minute)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, response, existing)
}

func TestIdempotencyExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "req-3", []byte("r"), time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "req-3", []byte("r"), time.Minute)
	require.NoError(t, err)
	require.False(t, exists, "key must expire after the TTL")
}
