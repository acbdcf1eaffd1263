package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rfcorreia/go-identity-service/internal/api"
	"github.com/rfcorreia/go-identity-service/internal/api/auth"
	"github.com/rfcorreia/go-identity-service/internal/api/user"
)

// Config contains the dependencies needed for router setup.
type Config struct {
	AuthHandler            *auth.AuthHandler
	UserHandler            *user.UserHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter wires the HTTP surface. Server-wide middleware (request
// ID, logging, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "User Service is running",
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		// Public routes.
		r.Group(func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		// Bearer-token routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/users", cfg.UserHandler.ListUsers)
			r.Get("/users/{id}", cfg.UserHandler.GetUserByID)
			r.Patch("/users/{id}/block", cfg.UserHandler.BlockUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Route not found")
	})

	return r
}
