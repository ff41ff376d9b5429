package models

import "time"

// Session binds an opaque transport token to a user for the lifetime of a login.
type Session struct {
	Token     string    `json:"-"` // Issued as an HttpOnly cookie, never in a body
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
