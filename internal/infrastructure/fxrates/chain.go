package fxrates

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// ChainSource asks each source in order and returns the first rate found.
type ChainSource []usecase.FxRateSource

// Rate implements usecase.FxRateSource.
func (c ChainSource) Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	for _, src := range c {
		rate, err := src.Rate(ctx, from, to, date)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, domain.ErrFxRateUnavailable) {
			return decimal.Zero, err
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %s->%s on %s", domain.ErrFxRateUnavailable, from, to, date)
}
