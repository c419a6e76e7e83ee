package usecase

import (
	"context"
	"fmt"

	"github.com/iho/hostledger/internal/domain"
)

// EntryUseCase serves read access to ledger rows.
type EntryUseCase struct {
	store LedgerStore
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(store LedgerStore) *EntryUseCase {
	return &EntryUseCase{
		store: store,
	}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists the rows owned by an account, newest first.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.LedgerEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.store.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// GetEntry retrieves a single row.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return uc.store.GetByID(ctx, id)
}

// GetGroup returns every row of a group.
func (uc *EntryUseCase) GetGroup(ctx context.Context, groupID string) (domain.EntryGroup, error) {
	group, err := uc.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("%w: group %s", domain.ErrEntryNotFound, groupID)
	}
	return group, nil
}
