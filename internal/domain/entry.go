package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// EntryKind classifies a ledger row.
type EntryKind string

const (
	KindContribution               EntryKind = "CONTRIBUTION"
	KindAddedFunds                 EntryKind = "ADDED_FUNDS"
	KindExpense                    EntryKind = "EXPENSE"
	KindHostFee                    EntryKind = "HOST_FEE"
	KindHostFeeShare               EntryKind = "HOST_FEE_SHARE"
	KindHostFeeShareDebt           EntryKind = "HOST_FEE_SHARE_DEBT"
	KindPlatformTip                EntryKind = "PLATFORM_TIP"
	KindPlatformTipDebt            EntryKind = "PLATFORM_TIP_DEBT"
	KindPaymentProcessorFee        EntryKind = "PAYMENT_PROCESSOR_FEE"
	KindPaymentProcessorDisputeFee EntryKind = "PAYMENT_PROCESSOR_DISPUTE_FEE"
	KindTax                        EntryKind = "TAX"
)

// IsDebt reports whether rows of this kind go through settlement.
func (k EntryKind) IsDebt() bool {
	return k == KindHostFeeShareDebt || k == KindPlatformTipDebt
}

// IsPrimary reports whether the kind carries the event amount itself.
func (k EntryKind) IsPrimary() bool {
	return k == KindContribution || k == KindAddedFunds || k == KindExpense
}

// PrimaryKind maps an event kind to the kind of its primary rows.
func PrimaryKind(k EventKind) EntryKind {
	switch k {
	case EventKindAddedFunds:
		return KindAddedFunds
	case EventKindExpense:
		return KindExpense
	default:
		return KindContribution
	}
}

type SettlementStatus string

const (
	SettlementNone     SettlementStatus = ""
	SettlementPending  SettlementStatus = "PENDING"
	SettlementInvoiced SettlementStatus = "INVOICED"
	SettlementSettled  SettlementStatus = "SETTLED"
)

// LedgerEntry is one signed row of a double-entry group. The row changes the
// balance of PayeeAccountID by Amount. Only IsDisputed, IsInReview and
// SettlementStatus change after the row is committed.
type LedgerEntry struct {
	CreatedAt time.Time

	ID        string
	GroupID   string
	Direction Direction
	Kind      EntryKind

	Amount                        int64
	Currency                      string
	AmountInHostCurrency          int64
	HostCurrency                  string
	HostCurrencyFxRate            decimal.Decimal
	NetAmountInCollectiveCurrency int64
	NetAmountInHostCurrency       int64

	PayerAccountID string
	PayeeAccountID string
	HostAccountID  string

	SourceEventID     string
	IdempotencyKey    string
	MirrorEntryID     string
	ReversalOfEntryID string
	Description       string

	IsRefund         bool
	IsDisputed       bool
	IsInReview       bool
	SettlementStatus SettlementStatus
}

// IsPrimaryCredit reports whether e is the CREDIT leg carrying the event amount.
func (e *LedgerEntry) IsPrimaryCredit() bool {
	return e.Direction == DirectionCredit && e.Kind.IsPrimary()
}

// IsBlocked reports whether the row is held by a dispute or a review.
func (e *LedgerEntry) IsBlocked() bool {
	return e.IsDisputed || e.IsInReview
}

// EntryGroup is the full row set of one economic event.
type EntryGroup []*LedgerEntry

// Primary returns the primary CREDIT row, or nil.
func (g EntryGroup) Primary() *LedgerEntry {
	for _, e := range g {
		if e.IsPrimaryCredit() {
			return e
		}
	}
	return nil
}

// Sum returns the signed totals in entry and host currency.
func (g EntryGroup) Sum() (amount, amountInHostCurrency int64) {
	for _, e := range g {
		amount += e.Amount
		amountInHostCurrency += e.AmountInHostCurrency
	}
	return amount, amountInHostCurrency
}

// Balanced reports whether the group conserves value.
func (g EntryGroup) Balanced() bool {
	a, h := g.Sum()
	return a == 0 && h == 0
}

// Blocked reports whether any row of the group is disputed or in review.
func (g EntryGroup) Blocked() bool {
	for _, e := range g {
		if e.IsBlocked() {
			return true
		}
	}
	return false
}

// IDs returns the row ids in order.
func (g EntryGroup) IDs() []string {
	ids := make([]string, len(g))
	for i, e := range g {
		ids[i] = e.ID
	}
	return ids
}
