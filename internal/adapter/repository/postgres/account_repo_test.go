package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
)

var accountColumns = []string{
	"id", "name", "type", "currency", "parent_id", "host_id", "host_fee_percent",
	"use_custom_host_fee", "host_fee_overrides", "cross_currency_enabled",
	"platform_tips_enabled", "host_fee_share_percent", "created_at", "updated_at",
}

func TestAccountRepositoryCreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(anyArgs(14)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "accounts_pkey"})

	err := repo.Create(context.Background(), &domain.Account{ID: "host", Name: "Host", Type: domain.AccountTypeHost, Currency: "USD"})
	require.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestAccountRepositoryCreateEncodesOverrides(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			"collective", "Collective", "COLLECTIVE", "USD", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), true, []byte(`{"PAYPAL":"2.5"}`), false, false, pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &domain.Account{
		ID:               "collective",
		Name:             "Collective",
		Type:             domain.AccountTypeCollective,
		Currency:         "USD",
		HostID:           "host",
		UseCustomHostFee: true,
		HostFeeOverrides: map[domain.PaymentMethodKind]decimal.Decimal{
			domain.PaymentMethodPayPal: decimal.RequireFromString("2.5"),
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM accounts WHERE id = ").
		WithArgs("collective").
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			"collective", "Collective", "COLLECTIVE", "USD", nil, "host", "10",
			false, []byte(`{"CREDIT_CARD":"7.5"}`), false, false, "0", now, now,
		))

	account, err := repo.GetByID(context.Background(), "collective")
	require.NoError(t, err)

	assert.Equal(t, "host", account.HostID)
	assert.Empty(t, account.ParentID)
	require.NotNil(t, account.HostFeePercent)
	assert.True(t, decimal.NewFromInt(10).Equal(*account.HostFeePercent))
	pct, ok := account.HostFeeOverride(domain.PaymentMethodCreditCard)
	require.True(t, ok)
	assert.Equal(t, "7.5", pct.String())
	assert.True(t, account.IsHostedBy("host"))
	assertExpectations(t, mock)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)

	mock.ExpectQuery("FROM accounts WHERE id = ").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepositoryGetByIDs(t *testing.T) {
	mock := newMockPool(t)
	repo := newAccountRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("WHERE id = ANY").
		WithArgs([]string{"host", "missing"}).
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			"host", "Host", "HOST", "USD", nil, "host", nil,
			false, []byte(`{}`), true, true, "20", now, now,
		))

	accounts, err := repo.GetByIDs(context.Background(), []string{"host", "missing"})
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	host := accounts["host"]
	assert.True(t, host.IsHost())
	assert.Nil(t, host.HostFeePercent)
	assert.Nil(t, host.HostFeeOverrides)
	assert.Equal(t, "20", host.HostFeeSharePercent.String())
	assertExpectations(t, mock)
}
