package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lortega/session-auth-be/internal/auth"
	"github.com/lortega/session-auth-be/internal/services"
)

// AuthHandler handles HTTP requests for registration, login, logout, and
// current-user lookup.
type AuthHandler struct {
	service      services.AuthServiceProvider
	cookieSecure bool
	cookieMaxAge int
}

// NewAuthHandler creates a new AuthHandler. Session cookies are issued with
// the given max age and the Secure flag per the environment.
func NewAuthHandler(service services.AuthServiceProvider, cookieSecure bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieSecure: cookieSecure,
		cookieMaxAge: int(cookieTTL.Seconds()),
	}
}

// userPayload is the sanitized user shape returned on register and login.
type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// mePayload additionally carries the account creation time.
type mePayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Register handles new user registration and logs the user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, sess, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err, "register", input.Email)
		return
	}

	h.setSessionCookie(w, sess.Token)
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered successfully",
		"user":    userPayload{ID: user.ID, Email: user.Email, FullName: user.FullName},
	})
}

// Login handles user authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, sess, err := h.service.Login(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err, "login", input.Email)
		return
	}

	h.setSessionCookie(w, sess.Token)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    userPayload{ID: user.ID, Email: user.Email, FullName: user.FullName},
	})
}

// Logout destroys the current session, if any, and clears the cookie.
// Logging out without a session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		log.Error().Err(err).Msg("Failed to destroy session")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// Me returns the user bound to the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		token = cookie.Value
	}

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		// RequireSession resolved this token moments ago; the session was
		// destroyed in between, or the store failed.
		log.Warn().Err(err).Str("user_id", auth.UserID(r.Context())).Msg("Session user lookup failed")
		h.respondServiceError(w, err, "me", "")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user": mePayload{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			CreatedAt: user.CreatedAt,
		},
	})
}

// respondServiceError translates the service error taxonomy to HTTP responses.
func (h *AuthHandler) respondServiceError(w http.ResponseWriter, err error, op, email string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "validation failed",
			"details": verr.Reason,
		})
	case errors.Is(err, services.ErrEmailTaken):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email already registered"})
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Warn().Str("email", email).Msg("Failed authentication attempt")
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
	case errors.Is(err, services.ErrUnauthenticated):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
	default:
		log.Error().Err(err).Str("op", op).Msg("Auth operation failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
