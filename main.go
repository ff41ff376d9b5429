package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lortega/session-auth-be/internal/api"
	"github.com/lortega/session-auth-be/internal/auth"
	"github.com/lortega/session-auth-be/internal/config"
	"github.com/lortega/session-auth-be/internal/database"
	"github.com/lortega/session-auth-be/internal/logger"
	"github.com/lortega/session-auth-be/internal/services"
	"github.com/lortega/session-auth-be/internal/session"
	"github.com/lortega/session-auth-be/internal/store"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up stores and collaborators
	userStore := store.NewSQLiteUserStore(db)
	sessionStore := store.NewSQLiteSessionStore(db)
	sessionManager := session.NewStoreManager(sessionStore, cfg.SessionTTL)
	hasher := auth.NewBcryptHasher()

	// Set up services
	authService := services.NewAuthService(userStore, sessionManager, hasher)

	// Set up router
	router := api.NewRouter(cfg, authService, sessionManager)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
