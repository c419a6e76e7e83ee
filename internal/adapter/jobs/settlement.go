package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"

	"github.com/iho/hostledger/internal/domain"
)

// QueueSettlement is the river queue settlement jobs run on.
const QueueSettlement = "settlement"

// HostSettler is the part of the settlement use case the workers drive.
type HostSettler interface {
	HostsToSettle(ctx context.Context, period domain.Period) ([]string, error)
	SettleHost(ctx context.Context, hostID string, period domain.Period) (*domain.SettlementResult, error)
}

// SettleHostArgs settles one host for one period. Jobs are unique by args so
// a period is never settled twice for the same host concurrently.
type SettleHostArgs struct {
	HostID string `json:"host_id"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}

func (SettleHostArgs) Kind() string { return "settle_host" }

func (SettleHostArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueSettlement,
		MaxAttempts: 5,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
}

func (a SettleHostArgs) period() domain.Period {
	return domain.Period{Year: a.Year, Month: time.Month(a.Month)}
}

// SettlePeriodArgs fans a period out into one SettleHostArgs job per host.
type SettlePeriodArgs struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (SettlePeriodArgs) Kind() string { return "settle_period" }

func (SettlePeriodArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueSettlement,
		MaxAttempts: 3,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
}

func (a SettlePeriodArgs) period() domain.Period {
	return domain.Period{Year: a.Year, Month: time.Month(a.Month)}
}

// NewSettlePeriodArgs builds the args for period.
func NewSettlePeriodArgs(period domain.Period) SettlePeriodArgs {
	return SettlePeriodArgs{Year: period.Year, Month: int(period.Month)}
}

type SettleHostWorker struct {
	river.WorkerDefaults[SettleHostArgs]
	settler HostSettler
	logger  zerolog.Logger
}

func NewSettleHostWorker(settler HostSettler, logger zerolog.Logger) *SettleHostWorker {
	return &SettleHostWorker{settler: settler, logger: logger}
}

func (w *SettleHostWorker) Timeout(*river.Job[SettleHostArgs]) time.Duration {
	return 2 * time.Minute
}

func (w *SettleHostWorker) Work(ctx context.Context, job *river.Job[SettleHostArgs]) error {
	period := job.Args.period()
	if err := period.Validate(); err != nil {
		return river.JobCancel(err)
	}

	result, err := w.settler.SettleHost(ctx, job.Args.HostID, period)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return river.JobCancel(err)
		}
		return fmt.Errorf("settle host %s for %s: %w", job.Args.HostID, period, err)
	}

	w.logger.Debug().
		Int64("job_id", job.ID).
		Str("host_id", job.Args.HostID).
		Str("period", period.String()).
		Bool("already_settled", result.AlreadySettled).
		Msg("settlement job done")
	return nil
}

// jobInserter is satisfied by *river.Client.
type jobInserter interface {
	InsertMany(ctx context.Context, params []river.InsertManyParams) ([]*rivertype.JobInsertResult, error)
}

type SettlePeriodWorker struct {
	river.WorkerDefaults[SettlePeriodArgs]
	settler HostSettler
	logger  zerolog.Logger
	// inserter overrides the client taken from the job context.
	inserter jobInserter
}

func NewSettlePeriodWorker(settler HostSettler, logger zerolog.Logger) *SettlePeriodWorker {
	return &SettlePeriodWorker{settler: settler, logger: logger}
}

func (w *SettlePeriodWorker) Work(ctx context.Context, job *river.Job[SettlePeriodArgs]) error {
	period := job.Args.period()
	if err := period.Validate(); err != nil {
		return river.JobCancel(err)
	}

	hosts, err := w.settler.HostsToSettle(ctx, period)
	if err != nil {
		return fmt.Errorf("list hosts to settle for %s: %w", period, err)
	}
	if len(hosts) == 0 {
		w.logger.Info().Str("period", period.String()).Msg("no hosts to settle")
		return nil
	}

	inserter := w.inserter
	if inserter == nil {
		client, err := river.ClientFromContextSafely[pgx.Tx](ctx)
		if err != nil {
			return err
		}
		inserter = client
	}

	params := make([]river.InsertManyParams, 0, len(hosts))
	for _, hostID := range hosts {
		params = append(params, river.InsertManyParams{Args: SettleHostArgs{
			HostID: hostID,
			Year:   period.Year,
			Month:  int(period.Month),
		}})
	}
	if _, err := inserter.InsertMany(ctx, params); err != nil {
		return fmt.Errorf("enqueue host settlements for %s: %w", period, err)
	}

	w.logger.Info().Str("period", period.String()).Int("hosts", len(hosts)).Msg("host settlements enqueued")
	return nil
}
