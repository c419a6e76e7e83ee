package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/hostledger/internal/adapter/http/handler"
	"github.com/iho/hostledger/internal/adapter/http/middleware"
	"github.com/iho/hostledger/internal/infrastructure/metrics"
	"github.com/iho/hostledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	EventHandler      *handler.EventHandler
	EntryHandler      *handler.EntryHandler
	HoldHandler       *handler.HoldHandler
	WebhookHandler    *handler.WebhookHandler
	SettlementHandler *handler.SettlementHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter throttles event and webhook ingestion when set.
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	// MetricsHandler serves /metrics; defaults to the global registry.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	throttle := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimiter != nil {
		throttle = cfg.RateLimiter.Limit
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
		})

		// Hosts
		r.Route("/hosts/{id}", func(r chi.Router) {
			r.Get("/money-managed", cfg.AccountHandler.MoneyManaged)
			r.Get("/settlements", cfg.SettlementHandler.ListByHost)
			r.Post("/settlements", cfg.SettlementHandler.SettleHost)
		})

		// Economic events
		r.With(throttle).Route("/events", func(r chi.Router) {
			r.Post("/contributions", cfg.EventHandler.RecordContribution)
			r.Post("/expenses", cfg.EventHandler.RecordExpense)
			r.Post("/added-funds", cfg.EventHandler.RecordAddedFunds)
		})

		// Entries and reversals
		r.Route("/entries/{id}", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.Get)
			r.Post("/refund", cfg.EntryHandler.Refund)
			r.Post("/disputes", cfg.HoldHandler.CreateDispute)
			r.Post("/reviews", cfg.HoldHandler.OpenReview)
		})
		r.Get("/groups/{id}/entries", cfg.EntryHandler.GetGroup)
		r.Post("/holds/{id}/close", cfg.HoldHandler.Close)

		// Processor notifications
		r.With(throttle).Post("/webhooks/payments", cfg.WebhookHandler.PaymentNotification)

		// Settlements
		r.Route("/settlements", func(r chi.Router) {
			r.Post("/", cfg.SettlementHandler.SettlePeriod)
			r.Get("/{id}", cfg.SettlementHandler.Get)
			r.Post("/{id}/pay", cfg.SettlementHandler.Pay)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
