package usecase

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInconsistentLedger is returned when a ledger group does not sum to zero.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	store LedgerStore
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(store LedgerStore) *LedgerUseCase {
	return &LedgerUseCase{
		store: store,
	}
}

// ConsistencyReport lists the groups breaking double-entry conservation.
type ConsistencyReport struct {
	Consistent bool
	Unbalanced []GroupImbalance
	CheckedAt  time.Time
}

// CheckConsistency verifies that every group sums to zero in both entry and
// host currency. The report is returned alongside ErrInconsistentLedger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	unbalanced, err := uc.store.UnbalancedGroups(ctx, consistencyReportLimit)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Consistent: len(unbalanced) == 0,
		Unbalanced: unbalanced,
		CheckedAt:  time.Now().UTC(),
	}
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
