// Package fxrates resolves currency conversion rates for the ledger.
package fxrates

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/metrics"
	"github.com/iho/hostledger/internal/usecase"
)

const batchConcurrency = 8

// Config holds the cache lifetimes. Historical rates never change, so they
// are kept much longer than the latest rate.
type Config struct {
	LatestTTL     time.Duration
	HistoricalTTL time.Duration
}

// CachedProvider implements usecase.FxRateProvider over a rate source, with a
// shared cache and in-process deduplication of identical lookups.
type CachedProvider struct {
	source  usecase.FxRateSource
	cache   usecase.Cache
	cfg     Config
	group   singleflight.Group
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewCachedProvider creates a new CachedProvider. cache and m may be nil.
func NewCachedProvider(source usecase.FxRateSource, cache usecase.Cache, cfg Config, logger zerolog.Logger, m *metrics.Metrics) *CachedProvider {
	if cfg.LatestTTL <= 0 {
		cfg.LatestTTL = time.Hour
	}
	if cfg.HistoricalTTL <= 0 {
		cfg.HistoricalTTL = 30 * 24 * time.Hour
	}
	return &CachedProvider{
		source:  source,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Rate returns the rate converting one unit of from into to on date.
func (p *CachedProvider) Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if date == "" {
		date = domain.FxLatest
	}
	req := domain.FxRequest{From: from, To: to, Date: date}
	key := req.Key()

	if rate, ok := p.cached(ctx, key); ok {
		p.observe("hit")
		return rate, nil
	}

	v, err, shared := p.group.Do(key, func() (any, error) {
		rate, err := p.source.Rate(ctx, from, to, date)
		if err != nil {
			return decimal.Zero, err
		}
		p.store(ctx, key, date, rate)
		return rate, nil
	})
	if err != nil {
		p.observe("error")
		return decimal.Zero, err
	}
	if shared {
		p.observe("shared")
	} else {
		p.observe("miss")
	}

	return v.(decimal.Decimal), nil
}

// Rates resolves a batch of requests. Duplicate keys are looked up once and
// distinct keys concurrently.
func (p *CachedProvider) Rates(ctx context.Context, reqs []domain.FxRequest) (map[domain.FxRequest]decimal.Decimal, error) {
	out := make(map[domain.FxRequest]decimal.Decimal, len(reqs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	seen := make(map[domain.FxRequest]bool, len(reqs))
	for _, req := range reqs {
		if seen[req] {
			continue
		}
		seen[req] = true

		g.Go(func() error {
			rate, err := p.Rate(gctx, req.From, req.To, req.Date)
			if err != nil {
				return err
			}
			mu.Lock()
			out[req] = rate
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *CachedProvider) cached(ctx context.Context, key string) (decimal.Decimal, bool) {
	if p.cache == nil {
		return decimal.Zero, false
	}
	raw, err := p.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, usecase.ErrCacheMiss) {
			p.logger.Warn().Err(err).Str("key", key).Msg("fx cache read failed")
		}
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(string(raw))
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed cached fx rate")
		return decimal.Zero, false
	}
	return rate, true
}

func (p *CachedProvider) store(ctx context.Context, key, date string, rate decimal.Decimal) {
	if p.cache == nil {
		return
	}
	ttl := p.cfg.HistoricalTTL
	if date == domain.FxLatest {
		ttl = p.cfg.LatestTTL
	}
	if err := p.cache.Set(ctx, key, []byte(rate.String()), ttl); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("fx cache write failed")
	}
}

func (p *CachedProvider) observe(result string) {
	if p.metrics != nil {
		p.metrics.FxLookups.WithLabelValues(result).Inc()
	}
}
