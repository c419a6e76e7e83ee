package jobs

import (
	"time"

	"github.com/riverqueue/river"

	"github.com/iho/hostledger/internal/domain"
)

// monthlySchedule fires on the first day of every month at offset past
// midnight UTC.
type monthlySchedule struct {
	offset time.Duration
}

func (s monthlySchedule) Next(current time.Time) time.Time {
	current = current.UTC()
	next := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC).Add(s.offset)
	if !next.After(current) {
		next = time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, time.UTC).Add(s.offset)
	}
	return next
}

// MonthlySettlementJob enqueues the settlement of the month that just closed.
func MonthlySettlementJob(now func() time.Time) *river.PeriodicJob {
	if now == nil {
		now = time.Now
	}
	return river.NewPeriodicJob(
		monthlySchedule{offset: 5 * time.Minute},
		func() (river.JobArgs, *river.InsertOpts) {
			return NewSettlePeriodArgs(periodBefore(now())), nil
		},
		nil,
	)
}

// periodBefore is the period preceding the one containing t.
func periodBefore(t time.Time) domain.Period {
	return domain.PeriodOf(t).Previous()
}
