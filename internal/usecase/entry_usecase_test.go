package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

type limitRecorder struct {
	usecase.LedgerStore
	limit, offset int
}

func (r *limitRecorder) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	r.limit, r.offset = limit, offset
	return nil, nil
}

func TestEntryUseCase_GetEntriesByAccount(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)

	f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})
	f.contribute(t, domain.EconomicEvent{GrossAmount: 2000, SourceEventID: "order-2"})

	entries, err := f.entries.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{AccountID: collectiveID})
	require.NoError(t, err)
	require.Len(t, entries, 4, "two primary credits and two host fee debits")
	assert.Equal(t, "order-2", entries[0].SourceEventID, "newest first")
	for _, e := range entries {
		assert.Equal(t, collectiveID, e.PayeeAccountID)
	}

	page, err := f.entries.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{AccountID: collectiveID, Limit: 1, Offset: 3})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "order-1", page[0].SourceEventID)
}

func TestEntryUseCase_PaginationDefaults(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, 20},
		{"negative", -5, 20},
		{"capped", 500, 100},
		{"kept", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &limitRecorder{}
			uc := usecase.NewEntryUseCase(store)

			_, err := uc.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{AccountID: "a", Limit: tt.limit, Offset: 7})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, store.limit)
			assert.Equal(t, 7, store.offset)
		})
	}
}

func TestEntryUseCase_GetGroup(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)

	primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})

	group, err := f.entries.GetGroup(context.Background(), primary.GroupID)
	require.NoError(t, err)
	assert.Equal(t, primary.ID, group.Primary().ID)

	entry, err := f.entries.GetEntry(context.Background(), primary.ID)
	require.NoError(t, err)
	assert.Equal(t, primary.GroupID, entry.GroupID)

	_, err = f.entries.GetGroup(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	_, err = f.entries.GetEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
