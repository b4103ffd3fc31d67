package api

import (
	"context"
	"net/http"

	"github.com/dom/postboard/internal/api/handlers"
	"github.com/dom/postboard/internal/api/middleware"
	"github.com/dom/postboard/internal/config"
	"github.com/dom/postboard/internal/logutil"
	"github.com/dom/postboard/internal/service"
	"github.com/dom/postboard/internal/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(services *service.Services, sessions *session.Manager, health HealthCheck, logger zerolog.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(sessions)
	authHandler := handlers.NewAuthHandler(services.Auth, sessions)
	postHandler := handlers.NewPostHandler(services.Post, sessions)

	r.NotFound(pageHandler.NotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				l := logutil.GetOrDefault(r.Context())
				l.Error().Err(err).Msg("health check failed")
				http.Error(w, "Unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	})

	// Public routes
	r.Get("/", pageHandler.Index)
	r.Get("/login", pageHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessions))

		r.Get("/profile", postHandler.Profile)
		r.Post("/post", postHandler.Create)

		r.Post("/like", postHandler.Like)
		r.Get("/like/{postId}", postHandler.Like)
		r.Post("/like/{postId}", postHandler.Like)

		r.Get("/edit/{postId}", postHandler.EditForm)
		r.Post("/edit/{postId}", postHandler.Update)

		r.Get("/delete/{postId}", postHandler.Delete)
	})

	return r
}
