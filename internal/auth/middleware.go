package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lortega/session-auth-be/internal/session"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

type contextKey string

const userIDKey = contextKey("authUserID")

// UserID returns the authenticated user's id placed in the context by
// RequireSession, or "" when the request is anonymous.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireSession creates a middleware for protecting routes. It resolves the
// session cookie and passes the bound user id down via context; requests with
// no live session are rejected with 401.
func RequireSession(manager session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			userID, err := manager.Resolve(r.Context(), token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				if errors.Is(err, session.ErrNoSession) {
					w.WriteHeader(http.StatusUnauthorized)
					json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"})
					return
				}
				log.Error().Err(err).Msg("Failed to resolve session")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
