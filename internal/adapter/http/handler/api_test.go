package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
	"github.com/iho/hostledger/internal/usecase/mocks"
)

// testAPI wires every handler to real use cases over the in-memory store.
type testAPI struct {
	store *mocks.MemoryStore
	dedup *mocks.MockIdempotencyStore

	accountUC    *usecase.AccountUseCase
	settlementUC *usecase.SettlementUseCase

	accounts    *AccountHandler
	events      *EventHandler
	entries     *EntryHandler
	holds       *HoldHandler
	webhooks    *WebhookHandler
	settlements *SettlementHandler
	ledger      *LedgerHandler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := mocks.NewMemoryStore()
	fx := mocks.NewStaticFxProvider()
	idGen := mocks.NewMockIDGenerator()
	logger := zerolog.Nop()
	policy := domain.LedgerPolicy{PlatformAccountID: "platform", PaymentProcessorAccountID: "stripe"}

	factory := usecase.NewEntryFactory(policy, idGen)
	balanceUC := usecase.NewBalanceUseCase(store.Ledger(), store.Accounts(), fx)
	accountUC := usecase.NewAccountUseCase(store.Accounts(), idGen)
	entryUC := usecase.NewEntryUseCase(store.Ledger())
	eventUC := usecase.NewEventUseCase(
		store.TxManager(), store.Ledger(), store.Accounts(), store.Outbox(),
		fx, factory, balanceUC, &mocks.MockRetrier{}, idGen, logger, nil,
	)
	reversalUC := usecase.NewReversalUseCase(
		store.TxManager(), store.Ledger(), store.Accounts(), store.Holds(), store.Subscriptions(),
		store.Outbox(), factory, balanceUC, idGen, logger, nil,
	)
	settlementUC := usecase.NewSettlementUseCase(
		store.TxManager(), store.Ledger(), store.Accounts(), store.Settlements(), store.Outbox(),
		factory, idGen, 2, logger, nil,
	)
	dedup := mocks.NewMockIdempotencyStore()

	api := &testAPI{
		store:        store,
		dedup:        dedup,
		accountUC:    accountUC,
		settlementUC: settlementUC,
		accounts:     NewAccountHandler(accountUC, balanceUC),
		events:       NewEventHandler(eventUC, entryUC),
		entries:      NewEntryHandler(entryUC, reversalUC),
		holds:        NewHoldHandler(reversalUC),
		webhooks:     NewWebhookHandler(reversalUC, dedup, time.Hour, logger),
		settlements:  NewSettlementHandler(settlementUC, nil),
		ledger:       NewLedgerHandler(usecase.NewLedgerUseCase(store.Ledger())),
	}

	share := decimal.NewFromInt(15)
	fee := decimal.NewFromInt(5)
	for _, in := range []usecase.CreateAccountInput{
		{ID: "platform", Name: "Platform", Type: domain.AccountTypePlatform, Currency: "USD"},
		{ID: "stripe", Name: "Stripe", Type: domain.AccountTypePaymentProcessor, Currency: "USD"},
		{ID: "user", Name: "Backer", Type: domain.AccountTypeUser, Currency: "USD"},
		{ID: "host", Name: "Host", Type: domain.AccountTypeHost, Currency: "USD", PlatformTipsEnabled: true, HostFeeSharePercent: share},
		{ID: "collective", Name: "Collective", Type: domain.AccountTypeCollective, Currency: "USD", HostID: "host", HostFeePercent: &fee},
	} {
		_, err := accountUC.CreateAccount(context.Background(), in)
		require.NoError(t, err)
	}

	return api
}

// router mounts the handlers the way the API router does.
func (a *testAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/accounts", a.accounts.Create)
	r.Get("/accounts", a.accounts.List)
	r.Get("/accounts/{id}", a.accounts.Get)
	r.Get("/accounts/{id}/balance", a.accounts.Balance)
	r.Get("/accounts/{id}/entries", a.entries.ListByAccount)
	r.Get("/hosts/{id}/money-managed", a.accounts.MoneyManaged)
	r.Get("/hosts/{id}/settlements", a.settlements.ListByHost)
	r.Post("/hosts/{id}/settlements", a.settlements.SettleHost)
	r.Post("/events/contributions", a.events.RecordContribution)
	r.Post("/events/expenses", a.events.RecordExpense)
	r.Post("/events/added-funds", a.events.RecordAddedFunds)
	r.Get("/entries/{id}", a.entries.Get)
	r.Post("/entries/{id}/refund", a.entries.Refund)
	r.Post("/entries/{id}/disputes", a.holds.CreateDispute)
	r.Post("/entries/{id}/reviews", a.holds.OpenReview)
	r.Post("/holds/{id}/close", a.holds.Close)
	r.Get("/groups/{id}/entries", a.entries.GetGroup)
	r.Post("/webhooks/payments", a.webhooks.PaymentNotification)
	r.Post("/settlements", a.settlements.SettlePeriod)
	r.Get("/settlements/{id}", a.settlements.Get)
	r.Post("/settlements/{id}/pay", a.settlements.Pay)
	r.Get("/ledger/consistency", a.ledger.CheckConsistency)
	return r
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func contribution(sourceEventID string, amount, tip int64, method string) map[string]any {
	return map[string]any{
		"amount":              amount,
		"currency":            "USD",
		"payer_account_id":    "user",
		"payee_account_id":    "collective",
		"host_account_id":     "host",
		"source_event_id":     sourceEventID,
		"idempotency_key":     "pi_" + sourceEventID,
		"payment_method":      method,
		"platform_tip_amount": tip,
	}
}
