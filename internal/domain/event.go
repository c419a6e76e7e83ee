package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EventKind is the kind of economic event recorded as a ledger group.
type EventKind string

const (
	EventKindContribution EventKind = "CONTRIBUTION"
	EventKindExpense      EventKind = "EXPENSE"
	EventKindAddedFunds   EventKind = "ADDED_FUNDS"
)

// PaymentMethodKind enumerates the payment method combinations that
// change how platform fees are collected.
type PaymentMethodKind string

const (
	// PaymentMethodCreditCard is a card charged through a processor that supports fee splitting.
	PaymentMethodCreditCard   PaymentMethodKind = "CREDIT_CARD"
	PaymentMethodPayPal       PaymentMethodKind = "PAYPAL"
	PaymentMethodBankTransfer PaymentMethodKind = "BANK_TRANSFER"
	PaymentMethodAddedFunds   PaymentMethodKind = "ADDED_FUNDS"
	// PaymentMethodAccountBalance moves money between two accounts of the platform.
	PaymentMethodAccountBalance PaymentMethodKind = "ACCOUNT_BALANCE"
)

func (k PaymentMethodKind) Valid() bool {
	switch k {
	case PaymentMethodCreditCard, PaymentMethodPayPal, PaymentMethodBankTransfer,
		PaymentMethodAddedFunds, PaymentMethodAccountBalance:
		return true
	}
	return false
}

// SupportsApplicationFee reports whether the platform share can be taken at charge time.
func (k PaymentMethodKind) SupportsApplicationFee() bool {
	return k == PaymentMethodCreditCard
}

// Tax is a VAT/GST style tax included in the gross amount.
type Tax struct {
	ID           string          `json:"id"`
	Rate         decimal.Decimal `json:"rate"`
	TaxedCountry string          `json:"taxed_country,omitempty"`
	TaxerCountry string          `json:"taxer_country,omitempty"`
}

// Amount returns round(gross - gross/(1+rate)).
func (t *Tax) Amount(gross int64) int64 {
	if t == nil || t.Rate.IsZero() {
		return 0
	}
	g := decimal.NewFromInt(gross)
	return RoundMinor(g.Sub(g.Div(decimal.NewFromInt(1).Add(t.Rate))))
}

// EconomicEvent is the normalized descriptor supplied by order and expense executors.
type EconomicEvent struct {
	OccurredAt time.Time

	Kind           EventKind
	GrossAmount    int64
	Currency       string
	PayerAccountID string
	PayeeAccountID string
	HostAccountID  string
	SourceEventID  string
	// IdempotencyKey is the processor-level key, e.g. a payment intent id.
	IdempotencyKey string
	PaymentMethod  PaymentMethodKind
	Description    string

	PlatformTipAmount         int64
	PaymentProcessorFeeAmount int64
	// HostFeePercent overrides every account level setting when set.
	HostFeePercent *decimal.Decimal
	Tax            *Tax
}

// Validate checks the event shape. Account resolution happens later.
func (e *EconomicEvent) Validate() error {
	switch e.Kind {
	case EventKindContribution, EventKindExpense, EventKindAddedFunds:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if err := ValidateAmount(e.GrossAmount); err != nil {
		return err
	}
	e.Currency = NormalizeCurrency(e.Currency)
	if err := ValidateCurrency(e.Currency); err != nil {
		return err
	}
	if e.PayerAccountID == "" || e.PayeeAccountID == "" || e.HostAccountID == "" {
		return fmt.Errorf("%w: payer, payee and host are required", ErrInvalidEvent)
	}
	if e.PayerAccountID == e.PayeeAccountID {
		return fmt.Errorf("%w: payer and payee must differ", ErrInvalidEvent)
	}
	if e.SourceEventID == "" {
		return fmt.Errorf("%w: source event id is required", ErrInvalidEvent)
	}
	if !e.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidEvent, e.PaymentMethod)
	}
	if e.PlatformTipAmount < 0 || e.PaymentProcessorFeeAmount < 0 {
		return fmt.Errorf("%w: fees cannot be negative", ErrInvalidAmount)
	}
	if e.Kind == EventKindExpense && e.PlatformTipAmount > 0 {
		return fmt.Errorf("%w: expenses carry no platform tip", ErrInvalidEvent)
	}
	if e.PlatformTipAmount >= e.GrossAmount {
		return fmt.Errorf("%w: platform tip must be lower than the gross amount", ErrInvalidAmount)
	}
	if e.HostFeePercent != nil {
		if err := ValidatePercent(*e.HostFeePercent); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFeeConfiguration, err)
		}
	}
	if e.Tax != nil && (e.Tax.Rate.IsNegative() || e.Tax.Rate.GreaterThanOrEqual(decimal.NewFromInt(1))) {
		return fmt.Errorf("%w: tax rate must be in [0, 1)", ErrInvalidEvent)
	}
	return nil
}
