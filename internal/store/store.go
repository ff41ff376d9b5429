// Package store provides persistence for users and sessions behind small
// interfaces so that SQLite and in-memory backends are interchangeable.
package store

import (
	"context"
	"errors"

	"github.com/lortega/session-auth-be/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	// Backends must detect this atomically at insert time, not by a prior read.
	ErrDuplicateEmail = errors.New("email already taken")
)

// UserStore persists user accounts. Email comparisons are case-insensitive.
type UserStore interface {
	// Create inserts the user. At most one user per email can ever exist, even
	// under concurrent calls; a loser of that race gets ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SessionStore persists login sessions keyed by their opaque token.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteByToken removes the session if present; deleting a missing token
	// is not an error.
	DeleteByToken(ctx context.Context, token string) error
}
