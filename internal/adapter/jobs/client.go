package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

// Config configures the river client.
type Config struct {
	Workers int
	// Periodic registers the monthly settlement job.
	Periodic bool
	Logger   zerolog.Logger
}

// Migrate applies river's schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("river migrate up failed: %w", err)
	}
	logger.Info().Int("applied", len(res.Versions)).Msg("river migrations applied")
	return nil
}

// NewClient creates a river client running the settlement workers.
func NewClient(pool *pgxpool.Pool, settler HostSettler, cfg Config) (*river.Client[pgx.Tx], error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSettleHostWorker(settler, cfg.Logger))
	river.AddWorker(workers, NewSettlePeriodWorker(settler, cfg.Logger))

	riverCfg := &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueSettlement:    {MaxWorkers: cfg.Workers},
		},
		Workers:      workers,
		ErrorHandler: &errorHandler{logger: cfg.Logger},
	}
	if cfg.Periodic {
		riverCfg.PeriodicJobs = []*river.PeriodicJob{MonthlySettlementJob(nil)}
	}

	client, err := river.NewClient(riverpgxv5.New(pool), riverCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create river client: %w", err)
	}
	return client, nil
}

// errorHandler logs failed jobs; river keeps its default retry policy.
type errorHandler struct {
	logger zerolog.Logger
}

func (h *errorHandler) HandleError(ctx context.Context, job *rivertype.JobRow, err error) *river.ErrorHandlerResult {
	h.logger.Error().Err(err).
		Int64("job_id", job.ID).
		Str("kind", job.Kind).
		Int("attempt", job.Attempt).
		Msg("job failed")
	return nil
}

func (h *errorHandler) HandlePanic(ctx context.Context, job *rivertype.JobRow, panicVal any, trace string) *river.ErrorHandlerResult {
	h.logger.Error().
		Int64("job_id", job.ID).
		Str("kind", job.Kind).
		Interface("panic", panicVal).
		Str("trace", trace).
		Msg("job panicked")
	return nil
}
