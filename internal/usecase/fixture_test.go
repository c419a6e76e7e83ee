package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
	"github.com/iho/hostledger/internal/usecase/mocks"
)

const (
	platformID   = "platform"
	processorID  = "stripe"
	hostID       = "host"
	collectiveID = "collective"
	userID       = "user"
)

type ledgerFixture struct {
	store *mocks.MemoryStore
	fx    *mocks.StaticFxProvider
	idGen *mocks.MockIDGenerator

	accounts    *usecase.AccountUseCase
	events      *usecase.EventUseCase
	reversals   *usecase.ReversalUseCase
	balances    *usecase.BalanceUseCase
	settlements *usecase.SettlementUseCase
	ledger      *usecase.LedgerUseCase
	entries     *usecase.EntryUseCase
}

func newLedgerFixture(t *testing.T, policy domain.LedgerPolicy) *ledgerFixture {
	t.Helper()

	policy.PlatformAccountID = platformID
	policy.PaymentProcessorAccountID = processorID

	store := mocks.NewMemoryStore()
	fx := mocks.NewStaticFxProvider()
	idGen := mocks.NewMockIDGenerator()
	logger := zerolog.Nop()

	factory := usecase.NewEntryFactory(policy, idGen)
	balances := usecase.NewBalanceUseCase(store.Ledger(), store.Accounts(), fx)

	f := &ledgerFixture{
		store:    store,
		fx:       fx,
		idGen:    idGen,
		accounts: usecase.NewAccountUseCase(store.Accounts(), idGen),
		balances: balances,
		events: usecase.NewEventUseCase(
			store.TxManager(), store.Ledger(), store.Accounts(), store.Outbox(),
			fx, factory, balances, &mocks.MockRetrier{}, idGen, logger, nil,
		),
		reversals: usecase.NewReversalUseCase(
			store.TxManager(), store.Ledger(), store.Accounts(), store.Holds(), store.Subscriptions(),
			store.Outbox(), factory, balances, idGen, logger, nil,
		),
		settlements: usecase.NewSettlementUseCase(
			store.TxManager(), store.Ledger(), store.Accounts(), store.Settlements(), store.Outbox(),
			factory, idGen, 2, logger, nil,
		),
		ledger:  usecase.NewLedgerUseCase(store.Ledger()),
		entries: usecase.NewEntryUseCase(store.Ledger()),
	}

	f.createAccount(t, usecase.CreateAccountInput{ID: platformID, Name: "Platform", Type: domain.AccountTypePlatform, Currency: "USD"})
	f.createAccount(t, usecase.CreateAccountInput{ID: processorID, Name: "Stripe", Type: domain.AccountTypePaymentProcessor, Currency: "USD"})
	f.createAccount(t, usecase.CreateAccountInput{ID: userID, Name: "Backer", Type: domain.AccountTypeUser, Currency: "USD"})

	return f
}

func (f *ledgerFixture) createAccount(t *testing.T, in usecase.CreateAccountInput) *domain.Account {
	t.Helper()
	account, err := f.accounts.CreateAccount(context.Background(), in)
	require.NoError(t, err)
	return account
}

// createHost registers a host; share is the host-fee share percent owed to the platform.
func (f *ledgerFixture) createHost(t *testing.T, id, currency string, share int64) *domain.Account {
	t.Helper()
	return f.createAccount(t, usecase.CreateAccountInput{
		ID:                   id,
		Name:                 "Host " + id,
		Type:                 domain.AccountTypeHost,
		Currency:             currency,
		CrossCurrencyEnabled: currency != "USD",
		PlatformTipsEnabled:  share > 0,
		HostFeeSharePercent:  decimal.NewFromInt(share),
	})
}

func (f *ledgerFixture) createCollective(t *testing.T, id, host, currency string, hostFeePercent int64) *domain.Account {
	t.Helper()
	pct := decimal.NewFromInt(hostFeePercent)
	return f.createAccount(t, usecase.CreateAccountInput{
		ID:             id,
		Name:           "Collective " + id,
		Type:           domain.AccountTypeCollective,
		Currency:       currency,
		HostID:         host,
		HostFeePercent: &pct,
	})
}

func (f *ledgerFixture) contribute(t *testing.T, ev domain.EconomicEvent) *domain.LedgerEntry {
	t.Helper()
	if ev.Kind == "" {
		ev.Kind = domain.EventKindContribution
	}
	if ev.PayerAccountID == "" {
		ev.PayerAccountID = userID
	}
	if ev.PayeeAccountID == "" {
		ev.PayeeAccountID = collectiveID
	}
	if ev.HostAccountID == "" {
		ev.HostAccountID = hostID
	}
	if ev.Currency == "" {
		ev.Currency = "USD"
	}
	if ev.PaymentMethod == "" {
		ev.PaymentMethod = domain.PaymentMethodCreditCard
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	}
	primary, err := f.events.Record(context.Background(), ev)
	require.NoError(t, err)
	return primary
}

func (f *ledgerFixture) balance(t *testing.T, accountID string) int64 {
	t.Helper()
	b, err := f.balances.Balance(context.Background(), accountID, usecase.BalanceOptions{})
	require.NoError(t, err)
	return b.Amount
}

func (f *ledgerFixture) balanceWithBlocked(t *testing.T, accountID string) int64 {
	t.Helper()
	b, err := f.balances.Balance(context.Background(), accountID, usecase.BalanceOptions{IncludeBlocked: true})
	require.NoError(t, err)
	return b.Amount
}

func (f *ledgerFixture) requireConsistent(t *testing.T) {
	t.Helper()
	report, err := f.ledger.CheckConsistency(context.Background())
	require.NoError(t, err)
	require.True(t, report.Consistent)
}

// settleAndPay settles the current period for every host and pays the resulting expenses.
func (f *ledgerFixture) settleAndPay(t *testing.T) []*domain.SettlementResult {
	t.Helper()
	ctx := context.Background()
	results, err := f.settlements.SettlePeriod(ctx, domain.PeriodOf(time.Now()))
	require.NoError(t, err)
	for _, r := range results {
		if r.Expense != nil && r.Expense.Status == domain.SettlementExpensePending {
			_, err := f.settlements.PaySettlementExpense(ctx, r.Expense.ID)
			require.NoError(t, err)
		}
	}
	return results
}
