package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/handler"
	"github.com/tiagobluiz/splitbill/internal/adapter/http/middleware"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EventHandler     *handler.EventHandler
	EntryHandler     *handler.EntryHandler
	BalanceHandler   *handler.BalanceHandler
	SplitHandler     *handler.SplitHandler
	HealthHandler    *handler.HealthHandler
	Logger           zerolog.Logger
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Events
		r.Route("/events", func(r chi.Router) {
			r.Post("/", cfg.EventHandler.Create)
			r.Get("/", cfg.EventHandler.List)
			r.Get("/{id}", cfg.EventHandler.Get)
			r.Patch("/{id}", cfg.EventHandler.Update)
			r.Delete("/{id}", cfg.EventHandler.Archive)

			r.Post("/{id}/people", cfg.EventHandler.AddPerson)
			r.Get("/{id}/people", cfg.EventHandler.ListPeople)

			r.Post("/{id}/entries", cfg.EntryHandler.Create)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByEvent)

			r.Get("/{id}/balances", cfg.BalanceHandler.Get)

			r.Post("/{id}/invites", cfg.EventHandler.CreateInvite)
			r.Get("/{id}/invites", cfg.EventHandler.ListInvites)
		})

		// People
		r.Route("/people", func(r chi.Router) {
			r.Patch("/{id}", cfg.EventHandler.UpdatePerson)
		})

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Put("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
		})

		// Invites
		r.Route("/invites", func(r chi.Router) {
			r.Delete("/{token}", cfg.EventHandler.RevokeInvite)
			r.Post("/{token}/join", cfg.EventHandler.Join)
		})

		// Split previews
		r.Post("/splits/preview", cfg.SplitHandler.Preview)
	})

	return r
}
