package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/hostledger/internal/infrastructure/postgres/generated"
	"github.com/iho/hostledger/internal/usecase"
)

// SubscriptionRepository implements usecase.SubscriptionRepository.
type SubscriptionRepository struct {
	queries *generated.Queries
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return newSubscriptionRepository(pool)
}

func newSubscriptionRepository(db generated.DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{queries: generated.New(db)}
}

// DeactivateBySourceEvent stops the subscription that produced sourceEventID.
// It reports whether an active subscription was found.
func (r *SubscriptionRepository) DeactivateBySourceEvent(ctx context.Context, tx usecase.Transaction, sourceEventID string, at time.Time) (bool, error) {
	n, err := txQueries(tx).DeactivateSubscription(ctx, generated.DeactivateSubscriptionParams{
		SourceEventID: sourceEventID,
		DeactivatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
