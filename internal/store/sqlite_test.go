package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lortega/session-auth-be/internal/database"
	"github.com/lortega/session-auth-be/internal/models"
)

func newTestDB(t *testing.T) (*SQLiteUserStore, *SQLiteSessionStore) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewSQLiteUserStore(db), NewSQLiteSessionStore(db)
}

func TestSQLiteUserStoreRoundtrip(t *testing.T) {
	users, _ := newTestDB(t)
	ctx := context.Background()

	user := &models.User{
		ID:           "u1",
		FullName:     "Alice",
		Email:        "a@x.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, users.Create(ctx, user))

	got, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = users.FindByEmail(ctx, "missing@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteUserStoreUniqueEmail(t *testing.T) {
	users, _ := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{ID: "u1", Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now()}))

	// The UNIQUE constraint is COLLATE NOCASE, so a re-cased duplicate is
	// rejected at insert time.
	err := users.Create(ctx, &models.User{ID: "u2", Email: "A@X.com", PasswordHash: "h", CreatedAt: time.Now()})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := users.FindByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestSQLiteSessionStoreRoundtrip(t *testing.T) {
	users, sessions := newTestDB(t)
	ctx := context.Background()

	// sessions.user_id references users; create the owner first.
	err := users.Create(ctx, &models.User{ID: "u1", Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now()})
	require.NoError(t, err)

	sess := &models.Session{
		Token:     "tok",
		UserID:    "u1",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, sessions.Create(ctx, sess))

	got, err := sessions.FindByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.False(t, got.ExpiresAt.IsZero())

	require.NoError(t, sessions.DeleteByToken(ctx, "tok"))
	_, err = sessions.FindByToken(ctx, "tok")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, sessions.DeleteByToken(ctx, "tok"))
}
