package services

import "errors"

// Sentinel errors forming the auth error taxonomy. Handlers match these with
// errors.Is / errors.As and translate them to HTTP statuses; nothing else from
// the collaborators leaks past the service boundary.
var (
	// ErrEmailTaken signals a registration attempt against an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password logins. The message is deliberately generic so the two
	// cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated signals a request with no live session.
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError reports a malformed register/login payload with a
// human-readable reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}
