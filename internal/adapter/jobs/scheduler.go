package jobs

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"

	"github.com/iho/hostledger/internal/domain"
)

type jobClient interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Scheduler enqueues period settlements for the workers.
type Scheduler struct {
	client jobClient
	logger zerolog.Logger
}

// NewScheduler creates a Scheduler over a river client.
func NewScheduler(client jobClient, logger zerolog.Logger) *Scheduler {
	return &Scheduler{client: client, logger: logger}
}

// ScheduleSettlement enqueues a settle_period job. Scheduling a period that
// is already queued is not an error.
func (s *Scheduler) ScheduleSettlement(ctx context.Context, period domain.Period) error {
	if err := period.Validate(); err != nil {
		return err
	}

	res, err := s.client.Insert(ctx, NewSettlePeriodArgs(period), nil)
	if err != nil {
		return fmt.Errorf("enqueue settlement of %s: %w", period, err)
	}

	s.logger.Info().
		Str("period", period.String()).
		Int64("job_id", res.Job.ID).
		Bool("duplicate", res.UniqueSkippedAsDuplicate).
		Msg("settlement scheduled")
	return nil
}
