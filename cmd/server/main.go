package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/hostledger/internal/adapter/http"
	"github.com/iho/hostledger/internal/adapter/http/handler"
	"github.com/iho/hostledger/internal/adapter/http/middleware"
	"github.com/iho/hostledger/internal/adapter/jobs"
	postgresRepo "github.com/iho/hostledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/hostledger/internal/adapter/repository/redis"
	"github.com/iho/hostledger/internal/infrastructure/config"
	"github.com/iho/hostledger/internal/infrastructure/eventpublisher"
	"github.com/iho/hostledger/internal/infrastructure/fxrates"
	"github.com/iho/hostledger/internal/infrastructure/logger"
	"github.com/iho/hostledger/internal/infrastructure/metrics"
	"github.com/iho/hostledger/internal/infrastructure/postgres"
	"github.com/iho/hostledger/internal/infrastructure/redis"
	"github.com/iho/hostledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "hostledger"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
		return err
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClientWithConfig(ctx, redis.Config{
		URL:         cfg.RedisURL,
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout))
	store := postgresRepo.NewLedgerStore(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	holdRepo := postgresRepo.NewHoldRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	subscriptionRepo := postgresRepo.NewSubscriptionRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	fxRepo := postgresRepo.NewFxRateRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrierWithConfig(postgresRepo.RetryConfig{
		MaxRetries:     cfg.DatabaseRetryMax,
		MaxElapsedTime: cfg.DatabaseRetryTimeout,
	}, log)

	// FX rates: stored rates first, then the static table when configured.
	sources := fxrates.ChainSource{fxRepo}
	if cfg.FxRatesFile != "" {
		static, err := fxrates.LoadStaticSource(cfg.FxRatesFile)
		if err != nil {
			return fmt.Errorf("failed to load fx rates file: %w", err)
		}
		sources = append(sources, static)
	}
	fx := fxrates.NewCachedProvider(
		sources,
		redisRepo.NewCache(redisClient, "fx:"),
		fxrates.Config{LatestTTL: cfg.FxLatestTTL, HistoricalTTL: cfg.FxHistoricalTTL},
		log, m,
	)

	// Initialize use cases
	policy := cfg.Ledger.Policy()
	factory := usecase.NewEntryFactory(policy, idGen)
	balanceUC := usecase.NewBalanceUseCase(store, accountRepo, fx)
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	entryUC := usecase.NewEntryUseCase(store)
	ledgerUC := usecase.NewLedgerUseCase(store)
	eventUC := usecase.NewEventUseCase(txManager, store, accountRepo, outboxRepo, fx, factory, balanceUC, retrier, idGen, log, m)
	reversalUC := usecase.NewReversalUseCase(txManager, store, accountRepo, holdRepo, subscriptionRepo, outboxRepo, factory, balanceUC, idGen, log, m)
	settlementUC := usecase.NewSettlementUseCase(txManager, store, accountRepo, settlementRepo, outboxRepo, factory, idGen, cfg.SettlementConcurrency, log, m)

	if err := accountUC.EnsureSystemAccounts(ctx, policy, cfg.Ledger.PlatformCurrency); err != nil {
		return err
	}

	// Settlement jobs
	var scheduler handler.SettlementScheduler
	if cfg.SettlementJobsEnabled {
		if err := jobs.Migrate(ctx, pool, log); err != nil {
			return err
		}
		jobClient, err := jobs.NewClient(pool, settlementUC, jobs.Config{Workers: cfg.JobWorkers, Periodic: true, Logger: log})
		if err != nil {
			return err
		}
		if err := jobClient.Start(ctx); err != nil {
			return fmt.Errorf("failed to start job client: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
			defer cancel()
			if err := jobClient.Stop(stopCtx); err != nil {
				log.Error().Err(err).Msg("job client stop failed")
			}
		}()
		scheduler = jobs.NewScheduler(jobClient, log)
	}

	// Outbox relay
	publisher, err := newOutboxPublisher(cfg, redisClient, log)
	if err != nil {
		return err
	}
	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go rateLimiter.StartCleanup(ctx, 10*time.Minute, time.Hour)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    handler.NewAccountHandler(accountUC, balanceUC),
		EventHandler:      handler.NewEventHandler(eventUC, entryUC),
		EntryHandler:      handler.NewEntryHandler(entryUC, reversalUC),
		HoldHandler:       handler.NewHoldHandler(reversalUC),
		WebhookHandler:    handler.NewWebhookHandler(reversalUC, redisRepo.NewIdempotencyStore(redisClient, "webhook:"), cfg.WebhookDedupTTL, log),
		SettlementHandler: handler.NewSettlementHandler(settlementUC, scheduler),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  redisRepo.NewIdempotencyStore(redisClient, "idempotency:"),
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		Metrics:           m,
		Logger:            log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// newOutboxPublisher picks the outbox sink named by OUTBOX_PUBLISHER.
func newOutboxPublisher(cfg *config.Config, client *goredis.Client, log zerolog.Logger) (eventpublisher.Publisher, error) {
	switch cfg.OutboxPublisher {
	case "", "log":
		return eventpublisher.NewLogPublisher(log), nil
	case "redis":
		return eventpublisher.NewStreamPublisher(client, cfg.OutboxStream, 100000), nil
	default:
		return nil, fmt.Errorf("unknown outbox publisher %q", cfg.OutboxPublisher)
	}
}
