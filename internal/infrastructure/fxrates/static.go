package fxrates

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iho/hostledger/internal/domain"
)

// StaticSource serves rates from a fixed table. A date lookup returns the
// most recent rate on or before that date; inverse pairs are derived.
//
// The YAML layout is:
//
//	rates:
//	  - {from: EUR, to: USD, date: 2024-05-01, rate: "1.08"}
type StaticSource struct {
	pairs map[string][]datedRate
}

type datedRate struct {
	date time.Time
	rate decimal.Decimal
}

type rateFile struct {
	Rates []rateRow `yaml:"rates"`
}

type rateRow struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Date string `yaml:"date"`
	Rate string `yaml:"rate"`
}

// LoadStaticSource reads a YAML rate table from path.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fx rates: %w", err)
	}
	return ParseStaticSource(data)
}

// ParseStaticSource parses a YAML rate table.
func ParseStaticSource(data []byte) (*StaticSource, error) {
	var file rateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fx rates: %w", err)
	}

	s := &StaticSource{pairs: make(map[string][]datedRate)}
	for i, row := range file.Rates {
		from := strings.ToUpper(row.From)
		to := strings.ToUpper(row.To)
		if err := domain.ValidateCurrency(from); err != nil {
			return nil, fmt.Errorf("rate %d: %w", i, err)
		}
		if err := domain.ValidateCurrency(to); err != nil {
			return nil, fmt.Errorf("rate %d: %w", i, err)
		}
		rate, err := decimal.NewFromString(row.Rate)
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("rate %d: %s->%s must be a positive number", i, from, to)
		}
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return nil, fmt.Errorf("rate %d: bad date %q", i, row.Date)
		}
		s.Add(from, to, date, rate)
	}
	return s, nil
}

// Add registers a rate converting one unit of from into to from date on.
func (s *StaticSource) Add(from, to string, date time.Time, rate decimal.Decimal) {
	if s.pairs == nil {
		s.pairs = make(map[string][]datedRate)
	}
	key := from + ":" + to
	rows := append(s.pairs[key], datedRate{date: date, rate: rate})
	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	s.pairs[key] = rows
}

// Rate implements usecase.FxRateSource.
func (s *StaticSource) Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	at := time.Time{}
	if date != domain.FxLatest && date != "" {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: bad date %q", domain.ErrFxRateUnavailable, date)
		}
		at = t
	}

	if rate, ok := s.lookup(from+":"+to, at); ok {
		return rate, nil
	}
	if rate, ok := s.lookup(to+":"+from, at); ok {
		return decimal.NewFromInt(1).DivRound(rate, 12), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s->%s on %s", domain.ErrFxRateUnavailable, from, to, date)
}

// lookup returns the last rate on or before at; a zero at selects the latest.
func (s *StaticSource) lookup(key string, at time.Time) (decimal.Decimal, bool) {
	rows := s.pairs[key]
	for i := len(rows) - 1; i >= 0; i-- {
		if at.IsZero() || !rows[i].date.After(at) {
			return rows[i].rate, true
		}
	}
	return decimal.Zero, false
}
