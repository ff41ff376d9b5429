// Package session issues, resolves, and destroys server-side login sessions.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/lortega/session-auth-be/internal/models"
	"github.com/lortega/session-auth-be/internal/store"
)

// ErrNoSession is returned by Resolve when the token names no live session,
// whether because it never existed, was destroyed, or has expired.
var ErrNoSession = errors.New("no active session")

// Manager is the session capability the auth service depends on.
type Manager interface {
	Create(ctx context.Context, userID string) (*models.Session, error)
	Resolve(ctx context.Context, token string) (string, error)
	// Destroy removes the session; destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// StoreManager implements Manager over a SessionStore with a fixed TTL.
type StoreManager struct {
	sessions store.SessionStore
	ttl      time.Duration
	now      func() time.Time
}

// NewStoreManager creates a StoreManager issuing sessions valid for ttl.
func NewStoreManager(sessions store.SessionStore, ttl time.Duration) *StoreManager {
	return &StoreManager{sessions: sessions, ttl: ttl, now: time.Now}
}

func (m *StoreManager) Create(ctx context.Context, userID string) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	now := m.now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return session, nil
}

func (m *StoreManager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	session, err := m.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("looking up session: %w", err)
	}

	if session.Expired(m.now()) {
		// Best effort cleanup; the row is dead either way.
		_ = m.sessions.DeleteByToken(ctx, token)
		return "", ErrNoSession
	}
	return session.UserID, nil
}

func (m *StoreManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.sessions.DeleteByToken(ctx, token)
}

// generateToken returns a cryptographically random, hex-encoded session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
