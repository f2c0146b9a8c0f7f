package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subtrack-dev/subtrack/internal/api/handlers"
	"github.com/subtrack-dev/subtrack/internal/api/middleware"
	"github.com/subtrack-dev/subtrack/internal/config"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/metrics"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Label        *handlers.LabelHandler
	Subscription *handlers.SubscriptionHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Get("/metrics", metrics.Handler().ServeHTTP)

		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		r.Get("/api/v1/auth/me", h.Auth.Me)

		r.Route("/api/v1/labels", func(r chi.Router) {
			r.Get("/", h.Label.List)
			r.Post("/", h.Label.Create)
			r.Get("/{id}", h.Label.Get)
			r.Put("/{id}", h.Label.Update)
			r.Delete("/{id}", h.Label.Delete)
		})

		r.Route("/api/v1/subscriptions", func(r chi.Router) {
			r.Get("/", h.Subscription.List)
			r.Post("/", h.Subscription.Create)
			r.Get("/costs", h.Subscription.TotalCosts)
			r.Get("/{id}", h.Subscription.Get)
			r.Put("/{id}", h.Subscription.Update)
			r.Delete("/{id}", h.Subscription.Delete)
			r.Get("/{id}/costs", h.Subscription.Costs)
		})
	})

	return r
}
