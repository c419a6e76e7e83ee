package mocks

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// MemoryStore is an in-memory ledger backing every repository fake. Writes
// made inside a transaction are undone on rollback; transactions run one at
// a time.
type MemoryStore struct {
	txMu sync.Mutex

	mu   sync.RWMutex
	data memoryData
}

type memoryData struct {
	entries       []domain.LedgerEntry
	accounts      map[string]domain.Account
	accountOrder  []string
	holds         map[string]domain.Hold
	settlements   map[string]domain.SettlementExpense
	subscriptions map[string]bool
	outbox        []domain.OutboxEvent
}

func (d memoryData) clone() memoryData {
	return memoryData{
		entries:       slices.Clone(d.entries),
		accounts:      maps.Clone(d.accounts),
		accountOrder:  slices.Clone(d.accountOrder),
		holds:         maps.Clone(d.holds),
		settlements:   maps.Clone(d.settlements),
		subscriptions: maps.Clone(d.subscriptions),
		outbox:        slices.Clone(d.outbox),
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: memoryData{
			accounts:      make(map[string]domain.Account),
			holds:         make(map[string]domain.Hold),
			settlements:   make(map[string]domain.SettlementExpense),
			subscriptions: make(map[string]bool),
		},
	}
}

func (s *MemoryStore) Ledger() *MockLedgerStore { return &MockLedgerStore{s: s} }

func (s *MemoryStore) Accounts() *MockAccountRepository { return &MockAccountRepository{s: s} }

func (s *MemoryStore) Holds() *MockHoldRepository { return &MockHoldRepository{s: s} }

func (s *MemoryStore) Settlements() *MockSettlementRepository {
	return &MockSettlementRepository{s: s}
}

func (s *MemoryStore) Subscriptions() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{s: s}
}

func (s *MemoryStore) Outbox() *MockOutboxRepository { return &MockOutboxRepository{s: s} }

func (s *MemoryStore) TxManager() *MockTransactionManager { return &MockTransactionManager{s: s} }

// Entries returns a copy of every stored row in insertion order.
func (s *MemoryStore) Entries() []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.entries)
}

// OutboxEvents returns a copy of every outbox event.
func (s *MemoryStore) OutboxEvents() []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.outbox)
}

// AddSubscription registers an active recurring contribution for a source event.
func (s *MemoryStore) AddSubscription(sourceEventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.subscriptions[sourceEventID] = true
}

// SubscriptionActive reports whether the subscription of a source event is active.
func (s *MemoryStore) SubscriptionActive(sourceEventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.subscriptions[sourceEventID]
}

// MockTransactionManager starts snapshot transactions on a MemoryStore.
type MockTransactionManager struct {
	s *MemoryStore

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

// NewMockTransactionManager returns a manager whose transactions only count calls.
func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if m.s == nil {
		return &MockTransaction{}, nil
	}

	m.s.txMu.Lock()
	m.s.mu.RLock()
	snapshot := m.s.data.clone()
	m.s.mu.RUnlock()

	return &memoryTx{s: m.s, snapshot: snapshot}, nil
}

type memoryTx struct {
	s        *MemoryStore
	snapshot memoryData
	done     bool
}

func (t *memoryTx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already closed")
	}
	t.done = true
	t.s.txMu.Unlock()
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.mu.Lock()
	t.s.data = t.snapshot
	t.s.mu.Unlock()
	t.s.txMu.Unlock()
	return nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockLedgerStore is an in-memory LedgerStore.
type MockLedgerStore struct {
	s *MemoryStore

	AppendGroupFunc func(ctx context.Context, tx usecase.Transaction, group domain.EntryGroup) error
}

func (m *MockLedgerStore) AppendGroup(ctx context.Context, tx usecase.Transaction, group domain.EntryGroup) error {
	if m.AppendGroupFunc != nil {
		return m.AppendGroupFunc(ctx, tx, group)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, e := range group {
		for _, existing := range m.s.data.entries {
			if existing.ID == e.ID {
				return fmt.Errorf("duplicate entry id %s", e.ID)
			}
			if !isOriginalPrimary(&existing) || !isOriginalPrimary(e) {
				continue
			}
			if existing.Kind == e.Kind && existing.SourceEventID == e.SourceEventID {
				return domain.ErrDuplicateEvent
			}
			if e.IdempotencyKey != "" && existing.IdempotencyKey == e.IdempotencyKey {
				return domain.ErrDuplicateEvent
			}
		}
	}
	for _, e := range group {
		m.s.data.entries = append(m.s.data.entries, *e)
	}
	return nil
}

func isOriginalPrimary(e *domain.LedgerEntry) bool {
	return e.IsPrimaryCredit() && e.ReversalOfEntryID == ""
}

func (m *MockLedgerStore) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, e := range m.s.data.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockLedgerStore) GetGroup(ctx context.Context, groupID string) (domain.EntryGroup, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.filter(func(e *domain.LedgerEntry) bool { return e.GroupID == groupID }), nil
}

func (m *MockLedgerStore) GetGroupForUpdate(ctx context.Context, tx usecase.Transaction, groupID string) (domain.EntryGroup, error) {
	group, _ := m.GetGroup(ctx, groupID)
	if len(group) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return group, nil
}

func (m *MockLedgerStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rows := m.s.filter(func(e *domain.LedgerEntry) bool { return e.PayeeAccountID == accountID })
	slices.Reverse(rows)
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *MockLedgerStore) PrimaryExists(ctx context.Context, tx usecase.Transaction, kind domain.EntryKind, sourceEventID, idempotencyKey string) (bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, e := range m.s.data.entries {
		if !isOriginalPrimary(&e) {
			continue
		}
		if e.Kind == kind && e.SourceEventID == sourceEventID {
			return true, nil
		}
		if idempotencyKey != "" && e.IdempotencyKey == idempotencyKey {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockLedgerStore) FindPrimary(ctx context.Context, sourceEventID, idempotencyKey string) (*domain.LedgerEntry, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if idempotencyKey != "" {
		for _, e := range m.s.data.entries {
			if isOriginalPrimary(&e) && e.IdempotencyKey == idempotencyKey {
				return &e, nil
			}
		}
	}
	if sourceEventID != "" {
		for _, e := range m.s.data.entries {
			if isOriginalPrimary(&e) && e.SourceEventID == sourceEventID {
				return &e, nil
			}
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockLedgerStore) RefundedAmount(ctx context.Context, tx usecase.Transaction, primaryEntryID string) (int64, error) {
	primary, err := m.GetByID(ctx, primaryEntryID)
	if err != nil {
		return 0, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var refunded int64
	for _, e := range m.s.data.entries {
		if e.ReversalOfEntryID == primary.ID && e.Kind == primary.Kind &&
			e.PayeeAccountID == primary.PayeeAccountID && e.Direction == domain.DirectionDebit {
			refunded -= e.Amount
		}
	}
	return refunded, nil
}

func (m *MockLedgerStore) MarkDisputed(ctx context.Context, tx usecase.Transaction, groupID string, disputed bool) error {
	m.s.update(func(e *domain.LedgerEntry) {
		if e.GroupID == groupID {
			e.IsDisputed = disputed
		}
	})
	return nil
}

func (m *MockLedgerStore) MarkInReview(ctx context.Context, tx usecase.Transaction, groupID string, inReview bool) error {
	m.s.update(func(e *domain.LedgerEntry) {
		if e.GroupID == groupID {
			e.IsInReview = inReview
		}
	})
	return nil
}

func (m *MockLedgerStore) MarkSettlement(ctx context.Context, tx usecase.Transaction, entryIDs []string, status domain.SettlementStatus) error {
	m.s.update(func(e *domain.LedgerEntry) {
		if slices.Contains(entryIDs, e.ID) {
			e.SettlementStatus = status
		}
	})
	return nil
}

func isPendingDebt(e *domain.LedgerEntry, before time.Time) bool {
	return e.Kind.IsDebt() && e.SettlementStatus == domain.SettlementPending && e.CreatedAt.Before(before)
}

func (m *MockLedgerStore) ListPendingDebts(ctx context.Context, tx usecase.Transaction, hostID string, before time.Time) (domain.EntryGroup, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.filter(func(e *domain.LedgerEntry) bool {
		return e.HostAccountID == hostID && isPendingDebt(e, before)
	}), nil
}

func (m *MockLedgerStore) ListHostsWithPendingDebts(ctx context.Context, before time.Time) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var hosts []string
	for _, e := range m.s.data.entries {
		if isPendingDebt(&e, before) && !slices.Contains(hosts, e.HostAccountID) {
			hosts = append(hosts, e.HostAccountID)
		}
	}
	slices.Sort(hosts)
	return hosts, nil
}

func (m *MockLedgerStore) BalanceBuckets(ctx context.Context, accountID string, includeBlocked bool) ([]usecase.BalanceBucket, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var buckets []usecase.BalanceBucket
	for _, e := range m.s.data.entries {
		if e.PayeeAccountID != accountID || (!includeBlocked && e.IsBlocked()) {
			continue
		}
		i := slices.IndexFunc(buckets, func(b usecase.BalanceBucket) bool {
			return b.Currency == e.Currency && b.HostCurrency == e.HostCurrency
		})
		if i < 0 {
			buckets = append(buckets, usecase.BalanceBucket{Currency: e.Currency, HostCurrency: e.HostCurrency})
			i = len(buckets) - 1
		}
		buckets[i].NetAmount += e.NetAmountInCollectiveCurrency
		buckets[i].NetAmountInHostCurrency += e.NetAmountInHostCurrency
	}
	return buckets, nil
}

func (m *MockLedgerStore) ManagedByHost(ctx context.Context, hostID string) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var total int64
	for _, e := range m.s.data.entries {
		if e.HostAccountID != hostID {
			continue
		}
		if owner, ok := m.s.data.accounts[e.PayeeAccountID]; ok && owner.HostID == hostID {
			total += e.NetAmountInHostCurrency
		}
	}
	return total, nil
}

func (m *MockLedgerStore) UnbalancedGroups(ctx context.Context, limit int) ([]usecase.GroupImbalance, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var order []string
	sums := make(map[string]*usecase.GroupImbalance)
	for _, e := range m.s.data.entries {
		g, ok := sums[e.GroupID]
		if !ok {
			g = &usecase.GroupImbalance{GroupID: e.GroupID}
			sums[e.GroupID] = g
			order = append(order, e.GroupID)
		}
		g.Amount += e.Amount
		g.AmountInHostCurrency += e.AmountInHostCurrency
	}
	var out []usecase.GroupImbalance
	for _, id := range order {
		g := sums[id]
		if g.Amount != 0 || g.AmountInHostCurrency != 0 {
			out = append(out, *g)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Corrupt rewrites stored rows in place; tests use it to break conservation.
func (m *MockLedgerStore) Corrupt(fn func(e *domain.LedgerEntry)) {
	m.s.update(fn)
}

func (s *MemoryStore) filter(keep func(e *domain.LedgerEntry) bool) domain.EntryGroup {
	var out domain.EntryGroup
	for _, e := range s.data.entries {
		if keep(&e) {
			out = append(out, &e)
		}
	}
	return out
}

func (s *MemoryStore) update(fn func(e *domain.LedgerEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.entries {
		fn(&s.data.entries[i])
	}
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	s *MemoryStore

	CreateFunc  func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
}

// NewMockAccountRepository returns a repository backed by its own store.
func NewMockAccountRepository() *MockAccountRepository {
	return NewMemoryStore().Accounts()
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.data.accounts[account.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountExists, account.ID)
	}
	m.s.data.accounts[account.ID] = *account
	m.s.data.accountOrder = append(m.s.data.accountOrder, account.ID)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if acc, ok := m.s.data.accounts[id]; ok {
		return &acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Account, error) {
	out := make(map[string]*domain.Account, len(ids))
	for _, id := range ids {
		acc, err := m.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out[id] = acc
	}
	return out, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var accounts []*domain.Account
	for i, id := range m.s.data.accountOrder {
		if i < offset {
			continue
		}
		if limit > 0 && len(accounts) == limit {
			break
		}
		acc := m.s.data.accounts[id]
		accounts = append(accounts, &acc)
	}
	return accounts, nil
}

// MockHoldRepository is a mock implementation of HoldRepository.
type MockHoldRepository struct {
	s *MemoryStore
}

func (m *MockHoldRepository) Create(ctx context.Context, tx usecase.Transaction, hold *domain.Hold) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, h := range m.s.data.holds {
		if h.GroupID == hold.GroupID && h.Status == domain.HoldStatusActive {
			return domain.ErrHoldExists
		}
	}
	m.s.data.holds[hold.ID] = *hold
	return nil
}

func (m *MockHoldRepository) GetByID(ctx context.Context, id string) (*domain.Hold, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if h, ok := m.s.data.holds[id]; ok {
		return &h, nil
	}
	return nil, domain.ErrHoldNotFound
}

func (m *MockHoldRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Hold, error) {
	return m.GetByID(ctx, id)
}

func (m *MockHoldRepository) GetActiveByGroup(ctx context.Context, groupID string) (*domain.Hold, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, h := range m.s.data.holds {
		if h.GroupID == groupID && h.Status == domain.HoldStatusActive {
			return &h, nil
		}
	}
	return nil, domain.ErrHoldNotFound
}

func (m *MockHoldRepository) Update(ctx context.Context, tx usecase.Transaction, hold *domain.Hold) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.data.holds[hold.ID]; !ok {
		return domain.ErrHoldNotFound
	}
	m.s.data.holds[hold.ID] = *hold
	return nil
}

// MockSettlementRepository is a mock implementation of SettlementRepository.
type MockSettlementRepository struct {
	s *MemoryStore
}

func (m *MockSettlementRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.SettlementExpense) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, e := range m.s.data.settlements {
		if e.HostAccountID == expense.HostAccountID && e.Period == expense.Period {
			return false, nil
		}
	}
	stored := *expense
	stored.EntryIDs = slices.Clone(expense.EntryIDs)
	m.s.data.settlements[expense.ID] = stored
	return true, nil
}

func (m *MockSettlementRepository) GetByID(ctx context.Context, id string) (*domain.SettlementExpense, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if e, ok := m.s.data.settlements[id]; ok {
		return &e, nil
	}
	return nil, domain.ErrSettlementNotFound
}

func (m *MockSettlementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.SettlementExpense, error) {
	return m.GetByID(ctx, id)
}

func (m *MockSettlementRepository) GetByHostPeriod(ctx context.Context, tx usecase.Transaction, hostID string, period domain.Period) (*domain.SettlementExpense, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, e := range m.s.data.settlements {
		if e.HostAccountID == hostID && e.Period == period {
			return &e, nil
		}
	}
	return nil, domain.ErrSettlementNotFound
}

func (m *MockSettlementRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, expense *domain.SettlementExpense) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.data.settlements[expense.ID]
	if !ok {
		return domain.ErrSettlementNotFound
	}
	stored.Status = expense.Status
	stored.PaidGroupID = expense.PaidGroupID
	stored.PaidAt = expense.PaidAt
	stored.UpdatedAt = expense.UpdatedAt
	m.s.data.settlements[expense.ID] = stored
	return nil
}

func (m *MockSettlementRepository) ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.SettlementExpense, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*domain.SettlementExpense
	for _, e := range m.s.data.settlements {
		if e.HostAccountID == hostID {
			out = append(out, &e)
		}
	}
	slices.SortFunc(out, func(a, b *domain.SettlementExpense) int {
		return b.Period.Start().Compare(a.Period.Start())
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	s *MemoryStore
}

func (m *MockSubscriptionRepository) DeactivateBySourceEvent(ctx context.Context, tx usecase.Transaction, sourceEventID string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if !m.s.data.subscriptions[sourceEventID] {
		return false, nil
	}
	m.s.data.subscriptions[sourceEventID] = false
	return true, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	s *MemoryStore

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.data.outbox = append(m.s.data.outbox, *event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.s.data.outbox {
		if !e.Published {
			out = append(out, &e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.data.outbox {
		if m.s.data.outbox[i].ID == id {
			m.s.data.outbox[i].Published = true
			m.s.data.outbox[i].PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) CountUnpublished(ctx context.Context) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var n int64
	for _, e := range m.s.data.outbox {
		if !e.Published {
			n++
		}
	}
	return n, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.data.outbox = slices.DeleteFunc(m.s.data.outbox, func(e domain.OutboxEvent) bool {
		return e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before)
	})
	return nil
}
