package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lortega/session-auth-be/internal/auth"
	"github.com/lortega/session-auth-be/internal/models"
	"github.com/lortega/session-auth-be/internal/session"
	"github.com/lortega/session-auth-be/internal/store"
)

// RegisterInput is the validated shape of a registration payload.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"login" validate:"-"`
}

// LoginInput is the validated shape of a login payload. No length rule on the
// password here: it is checked against the stored hash, not re-validated for
// policy.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthServiceProvider defines the interface for the auth service.
type AuthServiceProvider interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, *models.Session, error)
	Login(ctx context.Context, input LoginInput) (*models.User, *models.Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// AuthService orchestrates the user store, session manager, and password
// hasher into the register/login/logout/me operations.
type AuthService struct {
	users    store.UserStore
	sessions session.Manager
	hasher   auth.PasswordHasher
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, sessions session.Manager, hasher auth.PasswordHasher) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// dummyHash keeps the unknown-email login path doing the same bcrypt work as a
// real comparison, so the two failure modes stay indistinguishable by timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Register creates a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, *models.Session, error) {
	if err := s.validateInput(input); err != nil {
		return nil, nil, err
	}
	email := normalizeEmail(input.Email)

	// Fast-path conflict check; the store's insert-if-absent guarantee below
	// is what actually closes the race.
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, nil, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return nil, nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		FullName:     input.FullName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			// Lost a concurrent registration race for this email.
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}
	return user, sess, nil
}

// Login verifies the credentials and establishes a new session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, *models.Session, error) {
	if err := s.validateInput(input); err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(dummyHash, input.Password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}
	return user, sess, nil
}

// Logout destroys the session named by token. An empty or unknown token is
// not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// CurrentUser resolves the session and returns its bound user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolving session: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Dangling session; treat it the same as no session.
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

func (s *AuthService) validateInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var ferrs validator.ValidationErrors
	if errors.As(err, &ferrs) && len(ferrs) > 0 {
		return &ValidationError{Reason: describeFieldError(ferrs[0])}
	}
	return &ValidationError{Reason: err.Error()}
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
