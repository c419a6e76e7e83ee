package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:                  "host",
		Name:                "Host",
		Type:                domain.AccountTypeHost,
		Currency:            "EUR",
		HostID:              "host",
		HostFeeOverrides:    map[domain.PaymentMethodKind]decimal.Decimal{domain.PaymentMethodBankTransfer: decimal.NewFromInt(3)},
		HostFeeSharePercent: decimal.NewFromInt(15),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != "host" || resp.Type != "HOST" || resp.Currency != "EUR" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.HostFeeOverrides["BANK_TRANSFER"].Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected BANK_TRANSFER override, got %+v", resp.HostFeeOverrides)
	}
	if !resp.HostFeeSharePercent.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected share percent %v", resp.HostFeeSharePercent)
	}
}

func TestGroupFromDomain(t *testing.T) {
	group := domain.EntryGroup{
		{ID: "e1", GroupID: "g1", Direction: domain.DirectionCredit, Kind: domain.KindContribution, Amount: 10000},
		{ID: "e2", GroupID: "g1", Direction: domain.DirectionDebit, Kind: domain.KindContribution, Amount: -10000},
	}

	resp := GroupFromDomain(group)
	if resp.GroupID != "g1" || len(resp.Entries) != 2 {
		t.Fatalf("unexpected group response: %+v", resp)
	}
	if resp.Entries[1].Direction != "DEBIT" || resp.Entries[1].Amount != -10000 {
		t.Fatalf("unexpected debit row: %+v", resp.Entries[1])
	}

	if EntriesFromDomain(nil) != nil {
		t.Fatalf("expected nil rows to stay nil")
	}
}

func TestSettlementResultsFromDomain(t *testing.T) {
	period := domain.Period{Year: 2024, Month: time.May}
	results := []*domain.SettlementResult{
		{
			HostAccountID: "host",
			Period:        period,
			EntryCount:    4,
			Expense: &domain.SettlementExpense{
				ID:            "exp-1",
				HostAccountID: "host",
				Amount:        domain.NewMoney(1450, "USD"),
				Period:        period,
				Status:        domain.SettlementExpensePending,
			},
		},
		{HostAccountID: "other", Period: period, AlreadySettled: true},
	}

	out := SettlementResultsFromDomain(results)
	if len(out) != 2 {
		t.Fatalf("expected two results, got %d", len(out))
	}
	if out[0].Expense == nil || out[0].Expense.Amount != 1450 || out[0].Expense.Period != "2024-05" {
		t.Fatalf("unexpected expense: %+v", out[0].Expense)
	}
	if out[1].Expense != nil || !out[1].AlreadySettled {
		t.Fatalf("unexpected skipped result: %+v", out[1])
	}
}

func TestConsistencyFromReport(t *testing.T) {
	report := &usecase.ConsistencyReport{
		Consistent: false,
		Unbalanced: []usecase.GroupImbalance{{GroupID: "g1", Amount: 1, AmountInHostCurrency: 2}},
	}

	resp := ConsistencyFromReport(report)
	if resp.Consistent || len(resp.Unbalanced) != 1 || resp.Unbalanced[0].AmountInHostCurrency != 2 {
		t.Fatalf("unexpected consistency response: %+v", resp)
	}
}
