package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
)

func TestHoldRepositoryCreateActiveConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := newHoldRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO holds").
		WithArgs(anyArgs(10)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintActiveHold})

	err := repo.Create(context.Background(), tx, &domain.Hold{
		ID:      "hold-2",
		GroupID: "group-1",
		Kind:    domain.HoldKindDispute,
		Status:  domain.HoldStatusActive,
	})
	require.ErrorIs(t, err, domain.ErrHoldExists)
}

func TestHoldRepositoryGetActiveByGroup(t *testing.T) {
	mock := newMockPool(t)
	repo := newHoldRepository(mock)
	now := time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("status = 'ACTIVE'").
		WithArgs("group-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "group_id", "primary_entry_id", "kind", "status", "outcome",
			"processor_reference", "created_at", "updated_at", "closed_at",
		}).AddRow("hold-1", "group-1", "entry-credit", "DISPUTE", "ACTIVE", "", "dp_1", now, now, nil))

	hold, err := repo.GetActiveByGroup(context.Background(), "group-1")
	require.NoError(t, err)
	assert.Equal(t, domain.HoldKindDispute, hold.Kind)
	assert.Equal(t, "dp_1", hold.ProcessorReference)
	assert.Nil(t, hold.ClosedAt)
	assertExpectations(t, mock)
}

func TestHoldRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := newHoldRepository(mock)

	mock.ExpectQuery("FROM holds WHERE id = ").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrHoldNotFound)
}

func TestHoldRepositoryUpdate(t *testing.T) {
	closed := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)
	hold := &domain.Hold{ID: "hold-1", Status: domain.HoldStatusReleased, Outcome: domain.OutcomeDisputeWon, UpdatedAt: closed, ClosedAt: &closed}

	t.Run("updated", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newHoldRepository(mock)
		tx := beginTx(t, mock)

		mock.ExpectExec("UPDATE holds").
			WithArgs("hold-1", "RELEASED", "dispute_won", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(context.Background(), tx, hold))
		assertExpectations(t, mock)
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newHoldRepository(mock)
		tx := beginTx(t, mock)

		mock.ExpectExec("UPDATE holds").
			WithArgs(anyArgs(6)...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		require.ErrorIs(t, repo.Update(context.Background(), tx, hold), domain.ErrHoldNotFound)
	})
}
