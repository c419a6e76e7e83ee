package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/infrastructure/postgres/generated"
	"github.com/iho/hostledger/internal/usecase"
)

// Unique indexes guarding against double-recorded events.
const (
	constraintPrimarySource  = "ledger_entries_primary_source_uniq"
	constraintIdempotencyKey = "ledger_entries_idempotency_key_uniq"
)

// LedgerStore implements usecase.LedgerStore on the ledger_entries table.
type LedgerStore struct {
	queries *generated.Queries
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return newLedgerStore(pool)
}

func newLedgerStore(db generated.DBTX) *LedgerStore {
	return &LedgerStore{queries: generated.New(db)}
}

func (s *LedgerStore) q(tx usecase.Transaction) *generated.Queries {
	if tx == nil {
		return s.queries
	}
	return txQueries(tx)
}

// AppendGroup inserts every row of the group inside tx.
func (s *LedgerStore) AppendGroup(ctx context.Context, tx usecase.Transaction, group domain.EntryGroup) error {
	queries := txQueries(tx)

	for _, e := range group {
		err := queries.CreateLedgerEntry(ctx, entryToParams(e))
		if uniqueViolation(err, constraintPrimarySource) || uniqueViolation(err, constraintIdempotencyKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, e.SourceEventID)
		}
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	return nil
}

// GetByID retrieves a row by ID.
func (s *LedgerStore) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := s.queries.GetLedgerEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToEntry(row), nil
}

// GetGroup returns every row sharing groupID.
func (s *LedgerStore) GetGroup(ctx context.Context, groupID string) (domain.EntryGroup, error) {
	rows, err := s.queries.GetLedgerEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return rowsToGroup(rows), nil
}

// GetGroupForUpdate locks every row of the group.
func (s *LedgerStore) GetGroupForUpdate(ctx context.Context, tx usecase.Transaction, groupID string) (domain.EntryGroup, error) {
	rows, err := txQueries(tx).GetLedgerEntriesByGroupForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return rowsToGroup(rows), nil
}

// ListByAccount lists the rows owned by an account, newest first.
func (s *LedgerStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := s.queries.ListLedgerEntriesByPayee(ctx, generated.ListLedgerEntriesByPayeeParams{
		PayeeAccountID: accountID,
		Limit:          int32(limit),
		Offset:         int32(offset),
	})
	if err != nil {
		return nil, err
	}
	return rowsToGroup(rows), nil
}

// PrimaryExists reports whether an unreversed primary credit exists for the
// source event or the processor idempotency key.
func (s *LedgerStore) PrimaryExists(ctx context.Context, tx usecase.Transaction, kind domain.EntryKind, sourceEventID, idempotencyKey string) (bool, error) {
	return s.q(tx).PrimaryEntryExists(ctx, generated.PrimaryEntryExistsParams{
		Kind:           string(kind),
		SourceEventID:  sourceEventID,
		IdempotencyKey: textOrNull(idempotencyKey),
	})
}

// FindPrimary looks a primary credit up by idempotency key first, then by source event.
func (s *LedgerStore) FindPrimary(ctx context.Context, sourceEventID, idempotencyKey string) (*domain.LedgerEntry, error) {
	if idempotencyKey != "" {
		row, err := s.queries.GetPrimaryByIdempotencyKey(ctx, textOrNull(idempotencyKey))
		if err == nil {
			return rowToEntry(row), nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	if sourceEventID != "" {
		row, err := s.queries.GetPrimaryBySourceEvent(ctx, sourceEventID)
		if err == nil {
			return rowToEntry(row), nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return nil, domain.ErrEntryNotFound
}

// RefundedAmount sums what reversals already took back from the primary credit.
func (s *LedgerStore) RefundedAmount(ctx context.Context, tx usecase.Transaction, primaryEntryID string) (int64, error) {
	return s.q(tx).SumRefundedAmount(ctx, primaryEntryID)
}

// MarkDisputed flags or clears the dispute marker on every row of the group.
func (s *LedgerStore) MarkDisputed(ctx context.Context, tx usecase.Transaction, groupID string, disputed bool) error {
	return txQueries(tx).SetGroupDisputed(ctx, generated.SetGroupDisputedParams{
		GroupID:    groupID,
		IsDisputed: disputed,
	})
}

// MarkInReview flags or clears the review marker on every row of the group.
func (s *LedgerStore) MarkInReview(ctx context.Context, tx usecase.Transaction, groupID string, inReview bool) error {
	return txQueries(tx).SetGroupInReview(ctx, generated.SetGroupInReviewParams{
		GroupID:    groupID,
		IsInReview: inReview,
	})
}

// MarkSettlement moves rows to a settlement status.
func (s *LedgerStore) MarkSettlement(ctx context.Context, tx usecase.Transaction, entryIDs []string, status domain.SettlementStatus) error {
	if len(entryIDs) == 0 {
		return nil
	}
	return txQueries(tx).SetSettlementStatus(ctx, generated.SetSettlementStatusParams{
		SettlementStatus: textOrNull(string(status)),
		Ids:              entryIDs,
	})
}

// ListPendingDebts locks both legs of the host's pending debt rows created before the cutoff.
func (s *LedgerStore) ListPendingDebts(ctx context.Context, tx usecase.Transaction, hostID string, before time.Time) (domain.EntryGroup, error) {
	rows, err := txQueries(tx).ListPendingDebtsForUpdate(ctx, generated.ListPendingDebtsForUpdateParams{
		HostAccountID: hostID,
		CreatedAt:     timeToPgTimestamptz(before),
	})
	if err != nil {
		return nil, err
	}
	return rowsToGroup(rows), nil
}

// ListHostsWithPendingDebts lists hosts owing debts created before the cutoff.
func (s *LedgerStore) ListHostsWithPendingDebts(ctx context.Context, before time.Time) ([]string, error) {
	return s.queries.ListHostsWithPendingDebts(ctx, timeToPgTimestamptz(before))
}

// BalanceBuckets nets an account's rows per currency pair.
func (s *LedgerStore) BalanceBuckets(ctx context.Context, accountID string, includeBlocked bool) ([]usecase.BalanceBucket, error) {
	rows, err := s.queries.GetBalanceBuckets(ctx, generated.GetBalanceBucketsParams{
		PayeeAccountID: accountID,
		IncludeBlocked: includeBlocked,
	})
	if err != nil {
		return nil, err
	}

	buckets := make([]usecase.BalanceBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, usecase.BalanceBucket{
			Currency:                row.Currency,
			HostCurrency:            row.HostCurrency,
			NetAmount:               row.NetAmount,
			NetAmountInHostCurrency: row.NetAmountInHostCurrency,
		})
	}
	return buckets, nil
}

// ManagedByHost sums host-currency nets of rows owned by accounts hosted by hostID.
func (s *LedgerStore) ManagedByHost(ctx context.Context, hostID string) (int64, error) {
	return s.queries.SumManagedByHost(ctx, hostID)
}

// UnbalancedGroups returns up to limit groups whose rows do not sum to zero.
func (s *LedgerStore) UnbalancedGroups(ctx context.Context, limit int) ([]usecase.GroupImbalance, error) {
	rows, err := s.queries.ListUnbalancedGroups(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	out := make([]usecase.GroupImbalance, 0, len(rows))
	for _, row := range rows {
		out = append(out, usecase.GroupImbalance{
			GroupID:              row.GroupID,
			Amount:               row.Amount,
			AmountInHostCurrency: row.AmountInHostCurrency,
		})
	}
	return out, nil
}

func entryToParams(e *domain.LedgerEntry) generated.CreateLedgerEntryParams {
	return generated.CreateLedgerEntryParams{
		ID:                            e.ID,
		GroupID:                       e.GroupID,
		Direction:                     string(e.Direction),
		Kind:                          string(e.Kind),
		Amount:                        e.Amount,
		Currency:                      e.Currency,
		AmountInHostCurrency:          e.AmountInHostCurrency,
		HostCurrency:                  e.HostCurrency,
		HostCurrencyFxRate:            decimalToNumeric(e.HostCurrencyFxRate),
		NetAmountInCollectiveCurrency: e.NetAmountInCollectiveCurrency,
		NetAmountInHostCurrency:       e.NetAmountInHostCurrency,
		PayerAccountID:                e.PayerAccountID,
		PayeeAccountID:                e.PayeeAccountID,
		HostAccountID:                 e.HostAccountID,
		SourceEventID:                 e.SourceEventID,
		IdempotencyKey:                textOrNull(e.IdempotencyKey),
		MirrorEntryID:                 textOrNull(e.MirrorEntryID),
		ReversalOfEntryID:             textOrNull(e.ReversalOfEntryID),
		Description:                   e.Description,
		IsRefund:                      e.IsRefund,
		IsDisputed:                    e.IsDisputed,
		IsInReview:                    e.IsInReview,
		SettlementStatus:              textOrNull(string(e.SettlementStatus)),
		CreatedAt:                     timeToPgTimestamptz(e.CreatedAt),
	}
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:                            row.ID,
		GroupID:                       row.GroupID,
		Direction:                     domain.Direction(row.Direction),
		Kind:                          domain.EntryKind(row.Kind),
		Amount:                        row.Amount,
		Currency:                      row.Currency,
		AmountInHostCurrency:          row.AmountInHostCurrency,
		HostCurrency:                  row.HostCurrency,
		HostCurrencyFxRate:            numericToDecimal(row.HostCurrencyFxRate),
		NetAmountInCollectiveCurrency: row.NetAmountInCollectiveCurrency,
		NetAmountInHostCurrency:       row.NetAmountInHostCurrency,
		PayerAccountID:                row.PayerAccountID,
		PayeeAccountID:                row.PayeeAccountID,
		HostAccountID:                 row.HostAccountID,
		SourceEventID:                 row.SourceEventID,
		IdempotencyKey:                row.IdempotencyKey.String,
		MirrorEntryID:                 row.MirrorEntryID.String,
		ReversalOfEntryID:             row.ReversalOfEntryID.String,
		Description:                   row.Description,
		IsRefund:                      row.IsRefund,
		IsDisputed:                    row.IsDisputed,
		IsInReview:                    row.IsInReview,
		SettlementStatus:              domain.SettlementStatus(textValue(row.SettlementStatus)),
		CreatedAt:                     row.CreatedAt.Time,
	}
}

func rowsToGroup(rows []generated.LedgerEntry) domain.EntryGroup {
	group := make(domain.EntryGroup, 0, len(rows))
	for _, row := range rows {
		group = append(group, rowToEntry(row))
	}
	return group
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
