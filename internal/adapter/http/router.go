package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/sarraf/internal/adapter/http/handler"
	"github.com/iho/sarraf/internal/adapter/http/middleware"
	"github.com/iho/sarraf/internal/infrastructure/auth"
	"github.com/iho/sarraf/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler         *handler.LedgerHandler
	ExchangeHandler       *handler.ExchangeHandler
	HawalaHandler         *handler.HawalaHandler
	SubAccountHandler     *handler.SubAccountHandler
	ActivationHandler     *handler.ActivationHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	ActorResolver         *auth.TokenResolver
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewActorMiddleware(cfg.ActorResolver).Wrap)

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Balances and movements
		r.Route("/balances", func(r chi.Router) {
			r.Get("/{holderKind}/{holderID}/{currency}", cfg.LedgerHandler.GetBalance)
			r.Get("/{holderKind}/{holderID}/{currency}/movements", cfg.LedgerHandler.ListMovements)
		})

		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.Mutate)
			r.Get("/{id}", cfg.LedgerHandler.GetMovement)
			r.Post("/{id}/reverse", cfg.LedgerHandler.Reverse)
		})

		// Orchestrators
		r.Route("/exchanges", func(r chi.Router) {
			r.Post("/", cfg.ExchangeHandler.Execute)
			r.Get("/{id}", cfg.ExchangeHandler.Get)
		})

		r.Route("/hawalas", func(r chi.Router) {
			r.Post("/send", cfg.HawalaHandler.Send)
			r.Post("/receive", cfg.HawalaHandler.Receive)
			r.Get("/{reference}", cfg.HawalaHandler.GetByReference)
		})

		r.Post("/subaccounts/transactions", cfg.SubAccountHandler.Execute)

		r.Post("/codes/claim", cfg.ActivationHandler.Claim)

		// Per-account listings
		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/exchanges", cfg.ExchangeHandler.ListByAccount)
			r.Get("/hawalas", cfg.HawalaHandler.ListByAccount)
		})

		r.Get("/consistency", cfg.ReconciliationHandler.CheckConsistency)
	})

	return r
}
