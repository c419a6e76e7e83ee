package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
)

// LedgerStore is the append-only store of ledger rows. Rows are written a
// whole group at a time; only flags and settlement status change afterwards.
type LedgerStore interface {
	AppendGroup(ctx context.Context, tx Transaction, group domain.EntryGroup) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetGroup(ctx context.Context, groupID string) (domain.EntryGroup, error)
	// GetGroupForUpdate locks every row of the group.
	GetGroupForUpdate(ctx context.Context, tx Transaction, groupID string) (domain.EntryGroup, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)

	// PrimaryExists reports whether an unreversed primary credit exists for
	// the source event or the processor idempotency key.
	PrimaryExists(ctx context.Context, tx Transaction, kind domain.EntryKind, sourceEventID, idempotencyKey string) (bool, error)
	// FindPrimary looks a primary credit up by idempotency key first, then by source event.
	FindPrimary(ctx context.Context, sourceEventID, idempotencyKey string) (*domain.LedgerEntry, error)
	// RefundedAmount sums what reversals already took back from the primary credit.
	RefundedAmount(ctx context.Context, tx Transaction, primaryEntryID string) (int64, error)

	MarkDisputed(ctx context.Context, tx Transaction, groupID string, disputed bool) error
	MarkInReview(ctx context.Context, tx Transaction, groupID string, inReview bool) error
	MarkSettlement(ctx context.Context, tx Transaction, entryIDs []string, status domain.SettlementStatus) error

	// ListPendingDebts locks both legs of the host's pending debt rows created before the cutoff.
	ListPendingDebts(ctx context.Context, tx Transaction, hostID string, before time.Time) (domain.EntryGroup, error)
	ListHostsWithPendingDebts(ctx context.Context, before time.Time) ([]string, error)

	BalanceBuckets(ctx context.Context, accountID string, includeBlocked bool) ([]BalanceBucket, error)
	// ManagedByHost sums host-currency nets of rows owned by accounts hosted by hostID.
	ManagedByHost(ctx context.Context, hostID string) (int64, error)
	UnbalancedGroups(ctx context.Context, limit int) ([]GroupImbalance, error)
}

// BalanceBucket is the net of an account's rows for one currency pair.
type BalanceBucket struct {
	Currency                string
	HostCurrency            string
	NetAmount               int64
	NetAmountInHostCurrency int64
}

// GroupImbalance reports a group whose rows do not sum to zero.
type GroupImbalance struct {
	GroupID              string
	Amount               int64
	AmountInHostCurrency int64
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// HoldRepository defines data access for dispute and review holds.
type HoldRepository interface {
	Create(ctx context.Context, tx Transaction, hold *domain.Hold) error
	GetByID(ctx context.Context, id string) (*domain.Hold, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Hold, error)
	GetActiveByGroup(ctx context.Context, groupID string) (*domain.Hold, error)
	Update(ctx context.Context, tx Transaction, hold *domain.Hold) error
}

// SettlementRepository defines data access for settlement expenses.
type SettlementRepository interface {
	// Create inserts the expense unless one exists for the host and period.
	Create(ctx context.Context, tx Transaction, expense *domain.SettlementExpense) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.SettlementExpense, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.SettlementExpense, error)
	GetByHostPeriod(ctx context.Context, tx Transaction, hostID string, period domain.Period) (*domain.SettlementExpense, error)
	MarkPaid(ctx context.Context, tx Transaction, expense *domain.SettlementExpense) error
	ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.SettlementExpense, error)
}

// SubscriptionRepository deactivates recurring contributions.
type SubscriptionRepository interface {
	DeactivateBySourceEvent(ctx context.Context, tx Transaction, sourceEventID string, at time.Time) (bool, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	// CountUnpublished returns the size of the relay backlog.
	CountUnpublished(ctx context.Context) (int64, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// FxRateProvider resolves conversion rates. Same-currency requests return 1.
type FxRateProvider interface {
	Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error)
	Rates(ctx context.Context, reqs []domain.FxRequest) (map[domain.FxRequest]decimal.Decimal, error)
}

// FxRateSource is a backing store of rates. Missing rates yield domain.ErrFxRateUnavailable.
type FxRateSource interface {
	Rate(ctx context.Context, from, to, date string) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
	GenerateGroupID() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the operation can be retried.
	Release(ctx context.Context, key string) error
}
