package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lortega/session-auth-be/internal/store"
)

func TestCreateAndResolve(t *testing.T) {
	m := NewStoreManager(store.NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	sess, err := m.Create(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sess.Token, 64) // 32 random bytes, hex-encoded
	assert.Equal(t, "u1", sess.UserID)

	userID, err := m.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestResolveUnknownOrEmptyToken(t *testing.T) {
	m := NewStoreManager(store.NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	_, err := m.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrNoSession)

	_, err = m.Resolve(ctx, "deadbeef")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestResolveExpiredSession(t *testing.T) {
	sessions := store.NewMemorySessionStore()
	m := NewStoreManager(sessions, time.Hour)
	ctx := context.Background()

	sess, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	// Jump the clock past expiry.
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = m.Resolve(ctx, sess.Token)
	require.ErrorIs(t, err, ErrNoSession)

	// The expired row was cleaned up.
	_, err = sessions.FindByToken(ctx, sess.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDestroyIdempotent(t *testing.T) {
	m := NewStoreManager(store.NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	sess, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, sess.Token))
	require.NoError(t, m.Destroy(ctx, sess.Token))
	require.NoError(t, m.Destroy(ctx, ""))

	_, err = m.Resolve(ctx, sess.Token)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestTokensAreUnique(t *testing.T) {
	m := NewStoreManager(store.NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		sess, err := m.Create(ctx, "u1")
		require.NoError(t, err)
		require.False(t, seen[sess.Token])
		seen[sess.Token] = true
	}
}
