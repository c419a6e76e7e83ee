package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/postgres/generated"
	"github.com/iho/hostledger/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository.
type SettlementRepository struct {
	queries *generated.Queries
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return newSettlementRepository(pool)
}

func newSettlementRepository(db generated.DBTX) *SettlementRepository {
	return &SettlementRepository{queries: generated.New(db)}
}

// Create inserts the expense unless one exists for the host and period.
func (r *SettlementRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.SettlementExpense) (bool, error) {
	entryIDs := expense.EntryIDs
	if entryIDs == nil {
		entryIDs = []string{}
	}

	n, err := txQueries(tx).CreateSettlementExpense(ctx, generated.CreateSettlementExpenseParams{
		ID:             expense.ID,
		HostAccountID:  expense.HostAccountID,
		PayerAccountID: expense.PayerAccountID,
		PayeeAccountID: expense.PayeeAccountID,
		Amount:         expense.Amount.Amount,
		Currency:       expense.Amount.Currency,
		Period:         expense.Period.String(),
		Status:         string(expense.Status),
		EntryIds:       entryIDs,
		PaidGroupID:    expense.PaidGroupID,
		CreatedAt:      timeToPgTimestamptz(expense.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(expense.UpdatedAt),
		PaidAt:         timePtrToPgTimestamptz(expense.PaidAt),
	})
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// GetByID retrieves a settlement expense by ID.
func (r *SettlementRepository) GetByID(ctx context.Context, id string) (*domain.SettlementExpense, error) {
	row, err := r.queries.GetSettlementExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}

	return rowToSettlementExpense(row)
}

// GetByIDForUpdate retrieves a settlement expense with a FOR UPDATE lock.
func (r *SettlementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.SettlementExpense, error) {
	row, err := txQueries(tx).GetSettlementExpenseByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}

	return rowToSettlementExpense(row)
}

// GetByHostPeriod retrieves the expense of a host for a period.
func (r *SettlementRepository) GetByHostPeriod(ctx context.Context, tx usecase.Transaction, hostID string, period domain.Period) (*domain.SettlementExpense, error) {
	queries := r.queries
	if tx != nil {
		queries = txQueries(tx)
	}

	row, err := queries.GetSettlementExpenseByHostPeriod(ctx, generated.GetSettlementExpenseByHostPeriodParams{
		HostAccountID: hostID,
		Period:        period.String(),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}

	return rowToSettlementExpense(row)
}

// MarkPaid records the payment of an expense.
func (r *SettlementRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, expense *domain.SettlementExpense) error {
	n, err := txQueries(tx).MarkSettlementExpensePaid(ctx, generated.MarkSettlementExpensePaidParams{
		ID:          expense.ID,
		Status:      string(expense.Status),
		PaidGroupID: expense.PaidGroupID,
		PaidAt:      timePtrToPgTimestamptz(expense.PaidAt),
		UpdatedAt:   timeToPgTimestamptz(expense.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSettlementNotFound
	}

	return nil
}

// ListByHost lists a host's expenses, latest period first.
func (r *SettlementRepository) ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.SettlementExpense, error) {
	rows, err := r.queries.ListSettlementExpensesByHost(ctx, generated.ListSettlementExpensesByHostParams{
		HostAccountID: hostID,
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	if err != nil {
		return nil, err
	}

	expenses := make([]*domain.SettlementExpense, 0, len(rows))
	for _, row := range rows {
		expense, err := rowToSettlementExpense(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, nil
}

func rowToSettlementExpense(row generated.SettlementExpense) (*domain.SettlementExpense, error) {
	period, err := domain.ParsePeriod(row.Period)
	if err != nil {
		return nil, fmt.Errorf("settlement expense %s: %w", row.ID, err)
	}

	return &domain.SettlementExpense{
		ID:             row.ID,
		HostAccountID:  row.HostAccountID,
		PayerAccountID: row.PayerAccountID,
		PayeeAccountID: row.PayeeAccountID,
		Amount:         domain.NewMoney(row.Amount, row.Currency),
		Period:         period,
		Status:         domain.SettlementExpenseStatus(row.Status),
		EntryIDs:       row.EntryIds,
		PaidGroupID:    row.PaidGroupID,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
		PaidAt:         pgTimestamptzToTimePtr(row.PaidAt),
	}, nil
}
