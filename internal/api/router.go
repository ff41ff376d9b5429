package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lortega/session-auth-be/internal/api/handlers"
	"github.com/lortega/session-auth-be/internal/auth"
	"github.com/lortega/session-auth-be/internal/config"
	"github.com/lortega/session-auth-be/internal/services"
	"github.com/lortega/session-auth-be/internal/session"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, authService services.AuthServiceProvider, sessions session.Manager) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS with credentials so the browser sends the session cookie
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(authService, cfg.CookieSecure, cfg.SessionTTL)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok","time":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			// Logout is deliberately not behind RequireSession: logging out
			// with no active session succeeds.
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireSession(sessions))
				r.Get("/me", authHandler.Me)
			})
		})
	})

	return r
}
