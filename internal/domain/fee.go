package domain

import "github.com/shopspring/decimal"

// FeeDecision is the fee split decided once when an event is recorded.
// All amounts are in the event currency.
type FeeDecision struct {
	HostFeeAmount             int64
	PlatformTipAmount         int64
	PlatformTipIsDebt         bool
	HostFeeShareAmount        int64
	HostFeeShareIsDebt        bool
	PaymentProcessorFeeAmount int64
	TaxAmount                 int64

	HostFeePercent      decimal.Decimal
	HostFeeSharePercent decimal.Decimal
	Tax                 *Tax
}

// LedgerPolicy carries the ledger toggles and well-known accounts.
type LedgerPolicy struct {
	SeparatePaymentProcessorFees bool
	SeparateTaxes                bool
	PlatformAccountID            string
	PaymentProcessorAccountID    string
}
