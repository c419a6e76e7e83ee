package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

func TestScenario_ContributionWithoutTip(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)

	primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})

	assert.Equal(t, domain.DirectionCredit, primary.Direction)
	assert.Equal(t, collectiveID, primary.PayeeAccountID)
	assert.Equal(t, int64(9500), f.balance(t, collectiveID))
	assert.Equal(t, int64(500), f.balance(t, hostID))
	assert.Equal(t, int64(0), f.balance(t, platformID))
	assert.Equal(t, int64(-10000), f.balance(t, userID))

	group, err := f.entries.GetGroup(context.Background(), primary.GroupID)
	require.NoError(t, err)
	assert.Len(t, group, 4, "primary and host fee pairs")
	assert.True(t, group.Balanced())
	f.requireConsistent(t)
}

func TestScenario_TipSettlementAndRefund(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{
		GrossAmount:       10000,
		PlatformTipAmount: 1000,
		PaymentMethod:     domain.PaymentMethodPayPal,
		SourceEventID:     "order-1",
	})

	// Unsettled: the host holds the tip and the share on behalf of the platform.
	assert.Equal(t, int64(8550), f.balance(t, collectiveID))
	assert.Equal(t, int64(1450), f.balance(t, hostID))
	assert.Equal(t, int64(0), f.balance(t, platformID))
	totalBefore := f.balance(t, collectiveID) + f.balance(t, hostID) + f.balance(t, platformID)

	results := f.settleAndPay(t)
	require.Len(t, results, 1)
	expense := results[0].Expense
	require.NotNil(t, expense)
	assert.Equal(t, domain.NewMoney(1068, "USD"), expense.Amount)
	assert.Equal(t, hostID, expense.PayerAccountID)
	assert.Equal(t, platformID, expense.PayeeAccountID)
	assert.Equal(t, 4, results[0].EntryCount, "both legs of both debt pairs")

	assert.Equal(t, int64(8550), f.balance(t, collectiveID))
	assert.Equal(t, int64(382), f.balance(t, hostID))
	assert.Equal(t, int64(1068), f.balance(t, platformID))
	totalAfter := f.balance(t, collectiveID) + f.balance(t, hostID) + f.balance(t, platformID)
	assert.Equal(t, totalBefore, totalAfter, "settlement only moves what was owed")

	paid, err := f.settlements.GetSettlementExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementExpensePaid, paid.Status)
	for _, e := range f.store.Entries() {
		if e.Kind.IsDebt() {
			assert.Equal(t, domain.SettlementSettled, e.SettlementStatus, e.ID)
		}
	}

	// The processor keeps 200 on refund, charged to the host.
	reversal, err := f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID, ProcessorFeeAmount: 200})
	require.NoError(t, err)
	assert.True(t, reversal.Balanced())

	assert.Equal(t, int64(0), f.balance(t, collectiveID))
	assert.Equal(t, int64(-1268), f.balance(t, hostID))
	assert.Equal(t, int64(1068), f.balance(t, platformID))
	assert.Equal(t, int64(200), f.balance(t, processorID))

	// The reversed debts are owed back by the platform at the next settlement.
	results = f.settleAndPay(t)
	require.Len(t, results, 1)
	assert.True(t, results[0].AlreadySettled, "the period already has an expense")

	f.requireConsistent(t)
}

func TestScenario_RefundedDebtsAreOwedBack(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{
		GrossAmount:       10000,
		PlatformTipAmount: 1000,
		PaymentMethod:     domain.PaymentMethodPayPal,
		SourceEventID:     "order-1",
	})
	period := domain.PeriodOf(primary.CreatedAt)

	_, err := f.settlements.SettleHost(ctx, hostID, period)
	require.NoError(t, err)

	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID})
	require.NoError(t, err)

	pending := 0
	for _, e := range f.store.Entries() {
		if e.Kind.IsDebt() && e.SettlementStatus == domain.SettlementPending {
			pending++
			assert.True(t, e.IsRefund)
		}
	}
	assert.Equal(t, 4, pending)

	next, err := f.settlements.SettleHost(ctx, hostID, domain.PeriodOf(period.End()))
	require.NoError(t, err)
	require.NotNil(t, next.Expense)
	assert.Equal(t, platformID, next.Expense.PayerAccountID, "the platform owes the refunded debts back")
	assert.Equal(t, hostID, next.Expense.PayeeAccountID)
	assert.Equal(t, int64(1068), next.Expense.Amount.Amount)
}

func TestScenario_RefundRestoresEveryBalance(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{SeparatePaymentProcessorFees: true})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)

	accounts := []string{collectiveID, hostID, platformID, processorID, userID}
	before := make(map[string]int64)
	for _, id := range accounts {
		before[id] = f.balance(t, id)
	}

	primary := f.contribute(t, domain.EconomicEvent{
		GrossAmount:               10000,
		PlatformTipAmount:         500,
		PaymentProcessorFeeAmount: 320,
		PaymentMethod:             domain.PaymentMethodBankTransfer,
		SourceEventID:             "order-1",
	})
	assert.Equal(t, int64(320), f.balance(t, processorID))

	_, err := f.reversals.Refund(context.Background(), usecase.RefundInput{EntryID: primary.ID})
	require.NoError(t, err)

	for _, id := range accounts {
		assert.Equal(t, before[id], f.balance(t, id), id)
	}
	f.requireConsistent(t)
}

func TestScenario_PartialRefunds(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})

	half := int64(5000)
	_, err := f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID, Amount: &half})
	require.NoError(t, err)
	assert.Equal(t, int64(4750), f.balance(t, collectiveID))
	assert.Equal(t, int64(250), f.balance(t, hostID))

	tooMuch := int64(5001)
	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID, Amount: &tooMuch})
	assert.ErrorIs(t, err, domain.ErrInvalidRefundAmount)

	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.balance(t, collectiveID))
	assert.Equal(t, int64(0), f.balance(t, hostID))

	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyRefunded)

	f.requireConsistent(t)
}

func TestScenario_RefundInstallmentsNetToZero(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})

	for _, amount := range []int64{3333, 3333, 3334} {
		_, err := f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID, Amount: &amount})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(0), f.balance(t, collectiveID))
	assert.Equal(t, int64(0), f.balance(t, hostID))
	assert.Equal(t, int64(0), f.balance(t, userID))
	f.requireConsistent(t)
}

func TestScenario_RefundRejections(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})
	group, err := f.entries.GetGroup(ctx, primary.GroupID)
	require.NoError(t, err)

	var hostFee *domain.LedgerEntry
	for _, e := range group {
		if e.Kind == domain.KindHostFee && e.Direction == domain.DirectionCredit {
			hostFee = e
		}
	}
	require.NotNil(t, hostFee)

	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: hostFee.ID})
	assert.ErrorIs(t, err, domain.ErrNotPrimaryEntry)

	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	// Spending most of the money makes the refund impossible.
	_, err = f.events.Record(ctx, domain.EconomicEvent{
		Kind:           domain.EventKindExpense,
		GrossAmount:    9000,
		Currency:       "USD",
		PayerAccountID: collectiveID,
		PayeeAccountID: userID,
		HostAccountID:  hostID,
		SourceEventID:  "expense-1",
		PaymentMethod:  domain.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), f.balance(t, collectiveID))

	rowsBefore := len(f.store.Entries())
	_, err = f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Len(t, f.store.Entries(), rowsBefore, "failed refunds write nothing")
}

func TestScenario_Dispute(t *testing.T) {
	setup := func(t *testing.T) (*ledgerFixture, *domain.LedgerEntry, *domain.Hold) {
		f := newLedgerFixture(t, domain.LedgerPolicy{})
		f.createHost(t, hostID, "USD", 0)
		f.createCollective(t, collectiveID, hostID, "USD", 5)
		f.store.AddSubscription("order-1")

		primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})
		hold, err := f.reversals.CreateDispute(context.Background(), primary.ID, "dp_123")
		require.NoError(t, err)

		assert.Equal(t, int64(0), f.balance(t, collectiveID))
		assert.Equal(t, int64(9500), f.balanceWithBlocked(t, collectiveID))
		assert.False(t, f.store.SubscriptionActive("order-1"))
		return f, primary, hold
	}

	t.Run("second dispute on the same group", func(t *testing.T) {
		f, primary, _ := setup(t)
		_, err := f.reversals.CreateDispute(context.Background(), primary.ID, "dp_456")
		assert.ErrorIs(t, err, domain.ErrHoldExists)
	})

	t.Run("manual refund waits for the dispute", func(t *testing.T) {
		f, primary, hold := setup(t)
		rowsBefore := len(f.store.Entries())

		_, err := f.reversals.Refund(context.Background(), usecase.RefundInput{EntryID: primary.ID})
		require.ErrorIs(t, err, domain.ErrGroupOnHold)
		assert.Len(t, f.store.Entries(), rowsBefore)

		result, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{
			HoldID:    hold.ID,
			Outcome:   domain.OutcomeDisputeLost,
			FeeAmount: 1500,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.HoldStatusCaptured, result.Hold.Status)
		assert.Equal(t, int64(0), f.balance(t, collectiveID))
		assert.Equal(t, int64(-1500), f.balance(t, hostID))
		f.requireConsistent(t)
	})

	t.Run("won", func(t *testing.T) {
		f, _, hold := setup(t)
		result, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{
			HoldID:  hold.ID,
			Outcome: domain.OutcomeDisputeWon,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.HoldStatusReleased, result.Hold.Status)
		assert.Nil(t, result.Reversal)

		assert.Equal(t, int64(9500), f.balance(t, collectiveID))
		assert.Equal(t, int64(9500), f.balanceWithBlocked(t, collectiveID))

		_, err = f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{HoldID: hold.ID, Outcome: domain.OutcomeDisputeLost})
		assert.ErrorIs(t, err, domain.ErrHoldNotActive)
	})

	t.Run("lost", func(t *testing.T) {
		f, _, hold := setup(t)
		result, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{
			HoldID:    hold.ID,
			Outcome:   domain.OutcomeDisputeLost,
			FeeAmount: 1500,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.HoldStatusCaptured, result.Hold.Status)

		assert.Equal(t, int64(0), f.balance(t, collectiveID))
		assert.Equal(t, int64(0), f.balanceWithBlocked(t, collectiveID))
		assert.Equal(t, int64(-1500), f.balance(t, hostID))
		assert.Equal(t, int64(1500), f.balance(t, processorID))

		var feeDebit *domain.LedgerEntry
		for _, e := range result.Reversal {
			if e.Kind == domain.KindPaymentProcessorDisputeFee && e.Direction == domain.DirectionDebit {
				feeDebit = e
			}
		}
		require.NotNil(t, feeDebit)
		assert.Equal(t, hostID, feeDebit.PayeeAccountID)
		assert.Equal(t, int64(-1500), feeDebit.Amount)

		f.requireConsistent(t)
	})
}

func TestScenario_Review(t *testing.T) {
	setup := func(t *testing.T) (*ledgerFixture, *domain.Hold) {
		f := newLedgerFixture(t, domain.LedgerPolicy{})
		f.createHost(t, hostID, "USD", 0)
		f.createCollective(t, collectiveID, hostID, "USD", 5)

		primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})

		// Most of the money is spent before the review opens, leaving too little to refund.
		_, err := f.events.Record(context.Background(), domain.EconomicEvent{
			Kind:           domain.EventKindExpense,
			GrossAmount:    9000,
			Currency:       "USD",
			PayerAccountID: collectiveID,
			PayeeAccountID: userID,
			HostAccountID:  hostID,
			SourceEventID:  "expense-1",
			PaymentMethod:  domain.PaymentMethodBankTransfer,
		})
		require.NoError(t, err)

		hold, err := f.reversals.OpenReview(context.Background(), primary.ID, "rv_1")
		require.NoError(t, err)
		// The held 9500 drops out while the 9000 expense stays.
		require.Equal(t, int64(-9000), f.balance(t, collectiveID))
		require.Equal(t, int64(500), f.balanceWithBlocked(t, collectiveID))
		return f, hold
	}

	t.Run("approved", func(t *testing.T) {
		f, hold := setup(t)
		result, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{HoldID: hold.ID, Outcome: domain.OutcomeApproved})
		require.NoError(t, err)
		assert.Equal(t, domain.HoldStatusReleased, result.Hold.Status)
		assert.Equal(t, int64(500), f.balance(t, collectiveID))
	})

	t.Run("refunded needs funds", func(t *testing.T) {
		f, hold := setup(t)
		_, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{HoldID: hold.ID, Outcome: domain.OutcomeRefunded})
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

		stored, err := f.store.Holds().GetByID(context.Background(), hold.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.HoldStatusActive, stored.Status, "the hold survives a failed close")
	})

	t.Run("refunded as fraud skips the balance check", func(t *testing.T) {
		f, hold := setup(t)
		result, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{HoldID: hold.ID, Outcome: domain.OutcomeRefundedAsFraud})
		require.NoError(t, err)
		assert.Equal(t, domain.HoldStatusCaptured, result.Hold.Status)
		assert.Equal(t, int64(-9000), f.balance(t, collectiveID))
		f.requireConsistent(t)
	})

	t.Run("dispute outcome on a review", func(t *testing.T) {
		f, hold := setup(t)
		_, err := f.reversals.CloseHold(context.Background(), usecase.CloseHoldInput{HoldID: hold.ID, Outcome: domain.OutcomeDisputeWon})
		assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
	})
}

func TestScenario_PaymentNotifications(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1", IdempotencyKey: "ch_1"})
	f.contribute(t, domain.EconomicEvent{GrossAmount: 3000, SourceEventID: "order-2", IdempotencyKey: "ch_2"})

	result, err := f.reversals.HandlePaymentNotification(ctx, usecase.PaymentNotification{
		ChargeOrTransferID: "ch_1", Outcome: domain.PaymentSucceeded,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ActionIgnored, result.Action)

	result, err = f.reversals.HandlePaymentNotification(ctx, usecase.PaymentNotification{
		ChargeOrTransferID: "ch_1", Outcome: domain.PaymentDisputed,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ActionHoldOpened, result.Action)
	assert.Equal(t, domain.HoldKindDispute, result.Hold.Kind)

	result, err = f.reversals.HandlePaymentNotification(ctx, usecase.PaymentNotification{
		ChargeOrTransferID: "ch_1", Outcome: domain.PaymentDisputeLost, FeeAmount: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ActionHoldClosed, result.Action)
	assert.NotEmpty(t, result.Reversal)

	// Resolved by source event when the charge id is unknown.
	result, err = f.reversals.HandlePaymentNotification(ctx, usecase.PaymentNotification{
		SourceEventID: "order-2", Outcome: domain.PaymentFailed,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ActionRefunded, result.Action)

	result, err = f.reversals.HandlePaymentNotification(ctx, usecase.PaymentNotification{
		SourceEventID: "order-2", Outcome: domain.PaymentFailed,
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.ActionIgnored, result.Action)

	_, err = f.reversals.HandlePaymentNotification(ctx, usecase.PaymentNotification{
		ChargeOrTransferID: "ch_unknown", Outcome: domain.PaymentDisputed,
	})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	assert.Equal(t, int64(0), f.balance(t, collectiveID))
	f.requireConsistent(t)
}

func TestScenario_CrossCurrency(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "EUR", 15)
	f.createCollective(t, collectiveID, hostID, "JPY", 5)
	f.fx.Set("JPY", "EUR", decimal.RequireFromString("0.006325"))
	f.fx.Set("EUR", "USD", decimal.RequireFromString("1.08"))
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{
		GrossAmount:       100000,
		PlatformTipAmount: 10000,
		Currency:          "JPY",
		SourceEventID:     "order-jpy",
	})
	assert.Equal(t, int64(90000), primary.Amount)
	assert.Equal(t, int64(569), primary.AmountInHostCurrency)
	assert.Equal(t, "EUR", primary.HostCurrency)

	group, err := f.entries.GetGroup(ctx, primary.GroupID)
	require.NoError(t, err)
	amounts := make(map[domain.EntryKind]int64)
	for _, e := range group {
		if e.Direction == domain.DirectionCredit {
			amounts[e.Kind] = e.AmountInHostCurrency
		}
	}
	assert.Equal(t, int64(28), amounts[domain.KindHostFee])
	assert.Equal(t, int64(4), amounts[domain.KindHostFeeShare])
	assert.Equal(t, int64(4), amounts[domain.KindHostFeeShareDebt])
	assert.Equal(t, int64(63), amounts[domain.KindPlatformTip])
	assert.Equal(t, int64(63), amounts[domain.KindPlatformTipDebt])

	// Collective in yen, host in euro cents, platform in US cents.
	assert.Equal(t, int64(85500), f.balance(t, collectiveID))
	assert.Equal(t, int64(91), f.balance(t, hostID))
	assert.Equal(t, int64(0), f.balance(t, platformID))

	managed, err := f.balances.TotalMoneyManaged(ctx, hostID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoney(632, "EUR"), managed)

	results := f.settleAndPay(t)
	require.Len(t, results, 1)
	assert.Equal(t, domain.NewMoney(67, "EUR"), results[0].Expense.Amount)

	assert.Equal(t, int64(85500), f.balance(t, collectiveID))
	assert.Equal(t, int64(24), f.balance(t, hostID))
	assert.Equal(t, int64(72), f.balance(t, platformID))

	f.requireConsistent(t)
}

func TestScenario_RecordRejections(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	f.createHost(t, "host-eur", "EUR", 0)
	f.createCollective(t, "collective-eur", "host-eur", "EUR", 5)
	ctx := context.Background()

	f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1", IdempotencyKey: "ch_1"})

	base := domain.EconomicEvent{
		Kind:           domain.EventKindContribution,
		GrossAmount:    10000,
		Currency:       "USD",
		PayerAccountID: userID,
		PayeeAccountID: collectiveID,
		HostAccountID:  hostID,
		SourceEventID:  "order-2",
		PaymentMethod:  domain.PaymentMethodCreditCard,
	}

	tests := []struct {
		name   string
		mutate func(ev *domain.EconomicEvent)
		want   error
	}{
		{"duplicate source event", func(ev *domain.EconomicEvent) { ev.SourceEventID = "order-1" }, domain.ErrDuplicateEvent},
		{"duplicate charge", func(ev *domain.EconomicEvent) { ev.IdempotencyKey = "ch_1" }, domain.ErrDuplicateEvent},
		{"cross currency without flag", func(ev *domain.EconomicEvent) { ev.Currency = "EUR" }, domain.ErrCrossCurrencyNotAllowed},
		{"missing fx rate", func(ev *domain.EconomicEvent) {
			ev.Currency = "GBP"
			ev.PayeeAccountID = "collective-eur"
			ev.HostAccountID = "host-eur"
		}, domain.ErrFxRateUnavailable},
		{"zero amount", func(ev *domain.EconomicEvent) { ev.GrossAmount = 0 }, domain.ErrInvalidAmount},
		{"unknown payee", func(ev *domain.EconomicEvent) { ev.PayeeAccountID = "nobody" }, domain.ErrAccountNotFound},
		{"payee not hosted", func(ev *domain.EconomicEvent) { ev.HostAccountID = "host-eur" }, domain.ErrInvalidEvent},
		{"overspending expense", func(ev *domain.EconomicEvent) {
			ev.Kind = domain.EventKindExpense
			ev.PayerAccountID = collectiveID
			ev.PayeeAccountID = userID
			ev.GrossAmount = 9501
			ev.PaymentMethod = domain.PaymentMethodBankTransfer
		}, domain.ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rowsBefore := len(f.store.Entries())
			ev := base
			tt.mutate(&ev)
			_, err := f.events.Record(ctx, ev)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, f.store.Entries(), rowsBefore)
		})
	}
}

func TestScenario_ExpenseWithFoldedProcessorFee(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)

	f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})

	primary, err := f.events.Record(context.Background(), domain.EconomicEvent{
		Kind:                      domain.EventKindExpense,
		GrossAmount:               5000,
		PaymentProcessorFeeAmount: 100,
		Currency:                  "USD",
		PayerAccountID:            collectiveID,
		PayeeAccountID:            userID,
		HostAccountID:             hostID,
		SourceEventID:             "expense-1",
		PaymentMethod:             domain.PaymentMethodPayPal,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KindExpense, primary.Kind)
	assert.Equal(t, int64(4400), f.balance(t, collectiveID))
	f.requireConsistent(t)
}

func TestScenario_AddedFundsWithExplicitHostFee(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)

	pct := decimal.NewFromInt(10)
	f.contribute(t, domain.EconomicEvent{
		Kind:           domain.EventKindAddedFunds,
		GrossAmount:    10000,
		PaymentMethod:  domain.PaymentMethodAddedFunds,
		SourceEventID:  "added-1",
		HostFeePercent: &pct,
	})

	assert.Equal(t, int64(9000), f.balance(t, collectiveID))
	assert.Equal(t, int64(1000), f.balance(t, hostID))
}

func TestScenario_SettlementIdempotency(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{
		GrossAmount:       10000,
		PlatformTipAmount: 1000,
		PaymentMethod:     domain.PaymentMethodPayPal,
		SourceEventID:     "order-1",
	})
	period := domain.PeriodOf(primary.CreatedAt)

	first, err := f.settlements.SettleHost(ctx, hostID, period)
	require.NoError(t, err)
	require.NotNil(t, first.Expense)

	second, err := f.settlements.SettleHost(ctx, hostID, period)
	require.NoError(t, err)
	assert.True(t, second.AlreadySettled)
	assert.Equal(t, first.Expense.ID, second.Expense.ID)

	_, err = f.settlements.PaySettlementExpense(ctx, first.Expense.ID)
	require.NoError(t, err)
	_, err = f.settlements.PaySettlementExpense(ctx, first.Expense.ID)
	assert.ErrorIs(t, err, domain.ErrSettlementAlreadyPaid)

	_, err = f.settlements.PaySettlementExpense(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSettlementNotFound)

	expenses, err := f.settlements.ListSettlementExpenses(ctx, hostID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	_, err = f.settlements.SettleHost(ctx, collectiveID, period)
	assert.ErrorIs(t, err, domain.ErrNotHost)
}

func TestScenario_SettlementZeroNet(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{
		GrossAmount:       10000,
		PlatformTipAmount: 1000,
		PaymentMethod:     domain.PaymentMethodPayPal,
		SourceEventID:     "order-1",
	})
	_, err := f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID})
	require.NoError(t, err)

	period := domain.PeriodOf(primary.CreatedAt)
	result, err := f.settlements.SettleHost(ctx, hostID, period)
	require.NoError(t, err)
	assert.Nil(t, result.Expense)
	assert.Equal(t, 8, result.EntryCount)

	for _, e := range f.store.Entries() {
		if e.Kind.IsDebt() {
			assert.Equal(t, domain.SettlementSettled, e.SettlementStatus)
		}
	}

	hosts, err := f.settlements.HostsToSettle(ctx, period)
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestScenario_SettlePeriodAcrossHosts(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	f.createHost(t, "host-2", "USD", 10)
	f.createCollective(t, "collective-2", "host-2", "USD", 10)

	f.contribute(t, domain.EconomicEvent{
		GrossAmount: 10000, PlatformTipAmount: 1000, PaymentMethod: domain.PaymentMethodPayPal, SourceEventID: "order-1",
	})
	f.contribute(t, domain.EconomicEvent{
		GrossAmount: 20000, PaymentMethod: domain.PaymentMethodPayPal, SourceEventID: "order-2",
		PayeeAccountID: "collective-2", HostAccountID: "host-2",
	})

	results := f.settleAndPay(t)
	require.Len(t, results, 2)

	owed := make(map[string]int64)
	for _, r := range results {
		owed[r.HostAccountID] = r.Expense.Amount.Amount
	}
	assert.Equal(t, int64(1068), owed[hostID])
	assert.Equal(t, int64(200), owed["host-2"], "10% share of a 2000 host fee")

	assert.Equal(t, int64(1268), f.balance(t, platformID))
	f.requireConsistent(t)
}

func TestScenario_DisputeAfterFullRefund(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 0)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	primary := f.contribute(t, domain.EconomicEvent{GrossAmount: 10000, SourceEventID: "order-1"})
	_, err := f.reversals.Refund(ctx, usecase.RefundInput{EntryID: primary.ID})
	require.NoError(t, err)

	_, err = f.reversals.CreateDispute(ctx, primary.ID, "dp_late")
	require.ErrorIs(t, err, domain.ErrAlreadyRefunded)
	_, err = f.reversals.OpenReview(ctx, primary.ID, "rv_late")
	require.ErrorIs(t, err, domain.ErrAlreadyRefunded)

	// A hold left on a refunded group by older data still closes and charges the fee.
	now := time.Now().UTC()
	hold := &domain.Hold{
		ID:             "hold-legacy",
		GroupID:        primary.GroupID,
		PrimaryEntryID: primary.ID,
		Kind:           domain.HoldKindDispute,
		Status:         domain.HoldStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.store.Holds().Create(ctx, nil, hold))
	require.NoError(t, f.store.Ledger().MarkDisputed(ctx, nil, primary.GroupID, true))

	result, err := f.reversals.CloseHold(ctx, usecase.CloseHoldInput{
		HoldID:    hold.ID,
		Outcome:   domain.OutcomeDisputeLost,
		FeeAmount: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusCaptured, result.Hold.Status)
	require.Len(t, result.Reversal, 2, "only the dispute fee pair")

	fee := result.Reversal[1]
	assert.Equal(t, domain.KindPaymentProcessorDisputeFee, fee.Kind)
	assert.Equal(t, hostID, fee.PayeeAccountID)
	assert.Equal(t, int64(-1500), fee.Amount)

	assert.Equal(t, int64(0), f.balance(t, collectiveID))
	assert.Equal(t, int64(0), f.balanceWithBlocked(t, collectiveID))
	assert.Equal(t, int64(-1500), f.balance(t, hostID))
	assert.Equal(t, int64(1500), f.balance(t, processorID))
	f.requireConsistent(t)
}

func TestScenario_SettlementRefusesForeignHostCurrency(t *testing.T) {
	f := newLedgerFixture(t, domain.LedgerPolicy{})
	f.createHost(t, hostID, "USD", 15)
	f.createCollective(t, collectiveID, hostID, "USD", 5)
	ctx := context.Background()

	now := time.Now().UTC()
	debt := func(id, mirror, payee, payer string, amount int64) *domain.LedgerEntry {
		return &domain.LedgerEntry{
			ID:                      id,
			GroupID:                 "group-eur",
			Kind:                    domain.KindPlatformTipDebt,
			Amount:                  amount,
			Currency:                "EUR",
			AmountInHostCurrency:    amount,
			HostCurrency:            "EUR",
			NetAmountInHostCurrency: amount,
			PayeeAccountID:          payee,
			PayerAccountID:          payer,
			HostAccountID:           hostID,
			MirrorEntryID:           mirror,
			SettlementStatus:        domain.SettlementPending,
			CreatedAt:               now,
		}
	}
	credit := debt("debt-credit", "debt-debit", hostID, platformID, 500)
	credit.Direction = domain.DirectionCredit
	debit := debt("debt-debit", "debt-credit", platformID, hostID, -500)
	debit.Direction = domain.DirectionDebit
	require.NoError(t, f.store.Ledger().AppendGroup(ctx, nil, domain.EntryGroup{credit, debit}))

	_, err := f.settlements.SettleHost(ctx, hostID, domain.PeriodOf(now))
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	expenses, err := f.settlements.ListSettlementExpenses(ctx, hostID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}
