package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_BlacklistExpires(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.AddToBlacklist(ctx, "tok", time.Hour))
	ok, err := store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	ok, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok, "Token过期后不再需要黑名单")

	require.NoError(t, store.AddToBlacklist(ctx, "expired", 0))
	ok, _ = store.IsInBlacklist(ctx, "expired")
	assert.False(t, ok)
}

func TestSessionStore_Session(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	require.NoError(t, store.SaveSession(ctx, 1, map[string]interface{}{"auth": "Reader"}, time.Hour))
	assert.Contains(t, store.sessions, uint(1))

	require.NoError(t, store.DeleteSession(ctx, 1))
	assert.NotContains(t, store.sessions, uint(1))
}
