// Package main initializes and starts the playsave HTTP server, setting up
// configuration, logging, the database connection, repositories, services,
// session handling and routes.
package main

import (
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/dkorolev/playsave/internal/config"
	"github.com/dkorolev/playsave/internal/db"
	"github.com/dkorolev/playsave/internal/logger"
	"github.com/dkorolev/playsave/internal/middleware"
	"github.com/dkorolev/playsave/internal/repository"
	"github.com/dkorolev/playsave/internal/server/handler/http"
	"github.com/dkorolev/playsave/internal/service"
	"github.com/dkorolev/playsave/internal/sessions"
	"go.uber.org/zap"
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.SessionSigningSecret == "" || options.SessionEncryptionSecret == "" {
		zapLogger.Fatal("SESSION_SIGNING_SECRET and SESSION_ENCRYPTION_SECRET are required")
	}
	if options.SessionSigningSecret == options.SessionEncryptionSecret {
		zapLogger.Fatal("session signing and encryption secrets must differ")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically drop expired session rows.
	db.StartExpiredSessionCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	sessionTTL := time.Duration(options.SessionTTLHours) * time.Hour

	// Initialize repositories for users, progress and sessions.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB, options.SessionEncryptionSecret, sessionTTL, zapLogger)

	// Initialize business-logic services.
	hasher := service.NewHasher()
	authService := service.NewAuthService(userRepo, hasher)
	progressService := service.NewProgressService(userRepo)

	// Session cookie handling.
	sessionManager := sessions.NewManager(sessionRepo, options.SessionSigningSecret, sessionTTL, zapLogger)
	sessionMW := middleware.WithSession(sessionManager, zapLogger)

	// Create HTTP handlers for auth and progress endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	progressHandler := &http.ProgressHandler{
		ProgressService:        progressService,
		Log:                    zapLogger,
		EnforceSessionIdentity: options.EnforceSessionIdentity,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, progressHandler, sessionMW, zapLogger, options.CORSAllowedOrigin)

	server := &nethttp.Server{
		Addr:    fmt.Sprintf(":%s", options.Port),
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
