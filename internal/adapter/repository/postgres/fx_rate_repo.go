package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/postgres/generated"
)

// FxRateRepository serves stored conversion rates. It implements usecase.FxRateSource.
type FxRateRepository struct {
	queries *generated.Queries
}

// NewFxRateRepository creates a new FxRateRepository.
func NewFxRateRepository(pool *pgxpool.Pool) *FxRateRepository {
	return newFxRateRepository(pool)
}

func newFxRateRepository(db generated.DBTX) *FxRateRepository {
	return &FxRateRepository{queries: generated.New(db)}
}

// Save stores the rate converting one unit of from into to on date.
func (r *FxRateRepository) Save(ctx context.Context, from, to string, date time.Time, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", domain.ErrInvalidAmount)
	}
	return r.queries.UpsertFxRate(ctx, generated.UpsertFxRateParams{
		FromCurrency: from,
		ToCurrency:   to,
		RateDate:     pgtype.Date{Time: date.UTC(), Valid: true},
		Rate:         decimalToNumeric(rate),
	})
}

// Rate returns the most recent rate on or before date. The inverse pair is
// tried when the direct pair is missing.
func (r *FxRateRepository) Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rate, err := r.lookup(ctx, from, to, date)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, err
	}

	inverse, err := r.lookup(ctx, to, from, date)
	if err == nil && inverse.IsPositive() {
		return decimal.NewFromInt(1).DivRound(inverse, 12), nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, err
	}

	return decimal.Zero, fmt.Errorf("%w: %s->%s on %s", domain.ErrFxRateUnavailable, from, to, date)
}

func (r *FxRateRepository) lookup(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	if date == "" || date == domain.FxLatest {
		n, err := r.queries.GetLatestFxRate(ctx, generated.GetLatestFxRateParams{
			FromCurrency: from,
			ToCurrency:   to,
		})
		if err != nil {
			return decimal.Zero, err
		}
		return numericToDecimal(n), nil
	}

	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate date %q: %w", date, err)
	}

	n, err := r.queries.GetFxRateOnOrBefore(ctx, generated.GetFxRateOnOrBeforeParams{
		FromCurrency: from,
		ToCurrency:   to,
		RateDate:     pgtype.Date{Time: day, Valid: true},
	})
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(n), nil
}
