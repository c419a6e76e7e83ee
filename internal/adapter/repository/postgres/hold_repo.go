package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/postgres/generated"
	"github.com/iho/hostledger/internal/usecase"
)

const constraintActiveHold = "holds_active_group_uniq"

// HoldRepository implements usecase.HoldRepository.
type HoldRepository struct {
	queries *generated.Queries
}

// NewHoldRepository creates a new HoldRepository.
func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return newHoldRepository(pool)
}

func newHoldRepository(db generated.DBTX) *HoldRepository {
	return &HoldRepository{queries: generated.New(db)}
}

// Create creates a new hold.
func (r *HoldRepository) Create(ctx context.Context, tx usecase.Transaction, hold *domain.Hold) error {
	err := txQueries(tx).CreateHold(ctx, generated.CreateHoldParams{
		ID:                 hold.ID,
		GroupID:            hold.GroupID,
		PrimaryEntryID:     hold.PrimaryEntryID,
		Kind:               string(hold.Kind),
		Status:             string(hold.Status),
		Outcome:            string(hold.Outcome),
		ProcessorReference: hold.ProcessorReference,
		CreatedAt:          timeToPgTimestamptz(hold.CreatedAt),
		UpdatedAt:          timeToPgTimestamptz(hold.UpdatedAt),
		ClosedAt:           timePtrToPgTimestamptz(hold.ClosedAt),
	})
	if uniqueViolation(err, constraintActiveHold) {
		return domain.ErrHoldExists
	}

	return err
}

// GetByID retrieves a hold by ID.
func (r *HoldRepository) GetByID(ctx context.Context, id string) (*domain.Hold, error) {
	row, err := r.queries.GetHoldByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldNotFound
		}
		return nil, err
	}

	return rowToHold(row), nil
}

// GetByIDForUpdate retrieves a hold by ID with a FOR UPDATE lock.
func (r *HoldRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Hold, error) {
	row, err := txQueries(tx).GetHoldByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldNotFound
		}
		return nil, err
	}

	return rowToHold(row), nil
}

// GetActiveByGroup retrieves the open hold of a group.
func (r *HoldRepository) GetActiveByGroup(ctx context.Context, groupID string) (*domain.Hold, error) {
	row, err := r.queries.GetActiveHoldByGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldNotFound
		}
		return nil, err
	}

	return rowToHold(row), nil
}

// Update persists the status and outcome of a hold.
func (r *HoldRepository) Update(ctx context.Context, tx usecase.Transaction, hold *domain.Hold) error {
	n, err := txQueries(tx).UpdateHold(ctx, generated.UpdateHoldParams{
		ID:                 hold.ID,
		Status:             string(hold.Status),
		Outcome:            string(hold.Outcome),
		ProcessorReference: hold.ProcessorReference,
		UpdatedAt:          timeToPgTimestamptz(hold.UpdatedAt),
		ClosedAt:           timePtrToPgTimestamptz(hold.ClosedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrHoldNotFound
	}

	return nil
}

func rowToHold(row generated.Hold) *domain.Hold {
	return &domain.Hold{
		ID:                 row.ID,
		GroupID:            row.GroupID,
		PrimaryEntryID:     row.PrimaryEntryID,
		Kind:               domain.HoldKind(row.Kind),
		Status:             domain.HoldStatus(row.Status),
		Outcome:            domain.Outcome(row.Outcome),
		ProcessorReference: row.ProcessorReference,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
		ClosedAt:           pgTimestamptzToTimePtr(row.ClosedAt),
	}
}
