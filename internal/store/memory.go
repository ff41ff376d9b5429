package store

import (
	"context"
	"strings"
	"sync"

	"github.com/lortega/session-auth-be/internal/models"
)

// MemoryUserStore is an in-process UserStore used in tests and local setups.
// The mutex gives Create the same insert-if-absent guarantee the SQLite
// unique constraint provides.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[string]models.User
	byEmail map[string]string // lowercased email -> user id
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	key := strings.ToLower(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	s.byEmail[key] = user.ID
	s.byID[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	user := s.byID[id]
	return &user, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// MemorySessionStore is an in-process SessionStore used in tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	byToken map[string]models.Session
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{byToken: make(map[string]models.Session)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[session.Token] = *session
	return nil
}

func (s *MemorySessionStore) FindByToken(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) DeleteByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
	return nil
}
