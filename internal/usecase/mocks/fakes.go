package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// MockIDGenerator is a mock implementation of IDGenerator producing sequential ids.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

func (m *MockIDGenerator) GenerateGroupID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-group-%04d", m.counter)
}

// StaticFxProvider serves rates from a fixed table. Inverse rates are derived.
type StaticFxProvider struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
	calls int
}

func NewStaticFxProvider() *StaticFxProvider {
	return &StaticFxProvider{rates: make(map[string]decimal.Decimal)}
}

// Set registers the rate converting one unit of from into to.
func (p *StaticFxProvider) Set(from, to string, rate decimal.Decimal) *StaticFxProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[from+":"+to] = rate
	return p
}

// Calls returns how many rates were resolved, same-currency requests excluded.
func (p *StaticFxProvider) Calls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.calls
}

func (p *StaticFxProvider) Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if r, ok := p.rates[from+":"+to]; ok {
		return r, nil
	}
	if r, ok := p.rates[to+":"+from]; ok && !r.IsZero() {
		return decimal.NewFromInt(1).DivRound(r, 12), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s->%s on %s", domain.ErrFxRateUnavailable, from, to, date)
}

func (p *StaticFxProvider) Rates(ctx context.Context, reqs []domain.FxRequest) (map[domain.FxRequest]decimal.Decimal, error) {
	out := make(map[domain.FxRequest]decimal.Decimal, len(reqs))
	for _, req := range reqs {
		r, err := p.Rate(ctx, req.From, req.To, req.Date)
		if err != nil {
			return nil, err
		}
		out[req] = r
	}
	return out, nil
}

// MockRetrier runs the operation once, or up to Attempts times while it fails.
type MockRetrier struct {
	Attempts int
	calls    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := max(m.Attempts, 1)
	var err error
	for range attempts {
		m.calls++
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

// Calls returns how many times operations were run.
func (m *MockRetrier) Calls() int {
	return m.calls
}

// MockCache is an in-memory Cache without expiry.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyProcessing)
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
