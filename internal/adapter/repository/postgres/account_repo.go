package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/postgres/generated"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	overrides, err := json.Marshal(account.HostFeeOverrides)
	if err != nil {
		return fmt.Errorf("encode host fee overrides: %w", err)
	}
	if account.HostFeeOverrides == nil {
		overrides = []byte("{}")
	}

	err = r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:                   account.ID,
		Name:                 account.Name,
		Type:                 string(account.Type),
		Currency:             account.Currency,
		ParentID:             textOrNull(account.ParentID),
		HostID:               textOrNull(account.HostID),
		HostFeePercent:       decimalPtrToNumeric(account.HostFeePercent),
		UseCustomHostFee:     account.UseCustomHostFee,
		HostFeeOverrides:     overrides,
		CrossCurrencyEnabled: account.CrossCurrencyEnabled,
		PlatformTipsEnabled:  account.PlatformTipsEnabled,
		HostFeeSharePercent:  decimalToNumeric(account.HostFeeSharePercent),
		CreatedAt:            timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:            timeToPgTimestamptz(account.UpdatedAt),
	})
	if uniqueViolation(err, "accounts_pkey") {
		return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.ID)
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row)
}

// GetByIDs retrieves the accounts that exist among ids, keyed by id.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Account, error) {
	rows, err := r.queries.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	accounts := make(map[string]*domain.Account, len(rows))
	for _, row := range rows {
		account, err := rowToAccount(row)
		if err != nil {
			return nil, err
		}
		accounts[account.ID] = account
	}

	return accounts, nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		account, err := rowToAccount(row)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) (*domain.Account, error) {
	var overrides map[domain.PaymentMethodKind]decimal.Decimal
	if len(row.HostFeeOverrides) > 0 {
		if err := json.Unmarshal(row.HostFeeOverrides, &overrides); err != nil {
			return nil, fmt.Errorf("decode host fee overrides of %s: %w", row.ID, err)
		}
		if len(overrides) == 0 {
			overrides = nil
		}
	}

	return &domain.Account{
		ID:                   row.ID,
		Name:                 row.Name,
		Type:                 domain.AccountType(row.Type),
		Currency:             row.Currency,
		ParentID:             row.ParentID.String,
		HostID:               row.HostID.String,
		HostFeePercent:       numericToDecimalPtr(row.HostFeePercent),
		UseCustomHostFee:     row.UseCustomHostFee,
		HostFeeOverrides:     overrides,
		CrossCurrencyEnabled: row.CrossCurrencyEnabled,
		PlatformTipsEnabled:  row.PlatformTipsEnabled,
		HostFeeSharePercent:  numericToDecimal(row.HostFeeSharePercent),
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}, nil
}
