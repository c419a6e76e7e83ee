package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
)

func TestFxRateRepositoryRate(t *testing.T) {
	day := pgtype.Date{Time: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), Valid: true}

	t.Run("same currency", func(t *testing.T) {
		repo := newFxRateRepository(newMockPool(t))
		rate, err := repo.Rate(context.Background(), "USD", "USD", "2024-05-10")
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	})

	t.Run("direct on or before date", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newFxRateRepository(mock)

		mock.ExpectQuery("rate_date <= \\$3").
			WithArgs("EUR", "USD", day).
			WillReturnRows(pgxmock.NewRows([]string{"rate"}).AddRow("1.08"))

		rate, err := repo.Rate(context.Background(), "EUR", "USD", "2024-05-10")
		require.NoError(t, err)
		assert.Equal(t, "1.08", rate.String())
		assertExpectations(t, mock)
	})

	t.Run("inverse pair", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newFxRateRepository(mock)

		mock.ExpectQuery("rate_date <= \\$3").
			WithArgs("USD", "EUR", day).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("rate_date <= \\$3").
			WithArgs("EUR", "USD", day).
			WillReturnRows(pgxmock.NewRows([]string{"rate"}).AddRow("1.25"))

		rate, err := repo.Rate(context.Background(), "USD", "EUR", "2024-05-10")
		require.NoError(t, err)
		assert.Equal(t, "0.8", rate.String())
		assertExpectations(t, mock)
	})

	t.Run("latest", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newFxRateRepository(mock)

		mock.ExpectQuery("ORDER BY rate_date DESC").
			WithArgs("JPY", "EUR").
			WillReturnRows(pgxmock.NewRows([]string{"rate"}).AddRow("0.006325"))

		rate, err := repo.Rate(context.Background(), "JPY", "EUR", domain.FxLatest)
		require.NoError(t, err)
		assert.Equal(t, "0.006325", rate.String())
	})

	t.Run("unavailable", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newFxRateRepository(mock)

		mock.ExpectQuery("rate_date <= \\$3").
			WithArgs("GBP", "EUR", day).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("rate_date <= \\$3").
			WithArgs("EUR", "GBP", day).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Rate(context.Background(), "GBP", "EUR", "2024-05-10")
		require.ErrorIs(t, err, domain.ErrFxRateUnavailable)
	})

	t.Run("bad date", func(t *testing.T) {
		repo := newFxRateRepository(newMockPool(t))
		_, err := repo.Rate(context.Background(), "GBP", "EUR", "10/05/2024")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrFxRateUnavailable)
	})
}

func TestFxRateRepositorySaveRejectsNonPositive(t *testing.T) {
	repo := newFxRateRepository(newMockPool(t))
	err := repo.Save(context.Background(), "EUR", "USD", time.Now(), decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
