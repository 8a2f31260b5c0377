package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dkorolev/playsave/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs and returns the HTTP handler serving the game API.
//
// Routes:
//
//	GET  /              → liveness probe, plain "Hello World"
//	POST /api/register  → authHandler.Register
//	POST /api/login     → authHandler.Login
//	POST /api/progress  → progressHandler.Save
//	GET  /api/progress  → progressHandler.Get
//
// Middleware chain (applied in order):
//  1. CORS                          — origin from configuration, credentials allowed
//  2. WithRequestLogging(logger)    — logs each request with a request ID
//  3. sessionMW                     — resolves the session cookie, writes back modified sessions
//  4. AllowContentType (POST group) — rejects non-JSON bodies
func NewRouter(
	authHandler *AuthHandler,
	progressHandler *ProgressHandler,
	sessionMW func(http.Handler) http.Handler,
	logger *zap.Logger,
	corsAllowedOrigin string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Resolve the session cookie and persist modified sessions
	r.Use(sessionMW)

	// Liveness probe; the plain-text body is part of the public contract
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello World"))
	})

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/progress", progressHandler.Get)

		// JSON-body endpoints
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/progress", progressHandler.Save)
		})
	})

	return r
}
