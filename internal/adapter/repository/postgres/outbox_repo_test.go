package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
)

var outboxColumns = []string{
	"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
}

func TestOutboxRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := newOutboxRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("evt-1", "group-1", domain.AggregateTypeGroup, domain.EventTypeGroupRecorded,
			[]byte(`{"amount":10000,"group_id":"group-1"}`), pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tx, &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "group-1",
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupRecorded,
		Payload:       map[string]any{"group_id": "group-1", "amount": int64(10000)},
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	assertExpectations(t, mock)
}

func TestOutboxRepositoryCreateRequiresAggregate(t *testing.T) {
	mock := newMockPool(t)
	repo := newOutboxRepository(mock)
	tx := beginTx(t, mock)

	err := repo.Create(context.Background(), tx, &domain.OutboxEvent{ID: "evt-1", EventType: domain.EventTypeGroupRecorded})
	require.Error(t, err)
	assertExpectations(t, mock)
}

func TestOutboxRepositoryGetUnpublishedKeepsExactAmounts(t *testing.T) {
	mock := newMockPool(t)
	repo := newOutboxRepository(mock)
	created := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

	// above 2^53, where a float64 would round
	mock.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows(outboxColumns).AddRow(
			"evt-1", "group-1", domain.AggregateTypeGroup, domain.EventTypeGroupRecorded,
			[]byte(`{"amount":9007199254740993,"currency":"USD"}`), created, nil, false,
		))

	events, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	amount, ok := events[0].Payload["amount"].(json.Number)
	require.True(t, ok, "amount should decode as json.Number, got %T", events[0].Payload["amount"])
	assert.Equal(t, "9007199254740993", amount.String())
	assert.Equal(t, "USD", events[0].Payload["currency"])
	assert.True(t, created.Equal(events[0].CreatedAt))
	assert.Nil(t, events[0].PublishedAt)
	assertExpectations(t, mock)
}

func TestOutboxRepositoryGetUnpublishedInvalidPayload(t *testing.T) {
	mock := newMockPool(t)
	repo := newOutboxRepository(mock)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows(outboxColumns).AddRow(
			"evt-1", "group-1", domain.AggregateTypeGroup, domain.EventTypeGroupRecorded,
			[]byte(`{"amount":`), time.Now(), nil, false,
		))

	_, err := repo.GetUnpublished(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evt-1")
}

func TestOutboxRepositoryCountUnpublished(t *testing.T) {
	mock := newMockPool(t)
	repo := newOutboxRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	n, err := repo.CountUnpublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assertExpectations(t, mock)
}
