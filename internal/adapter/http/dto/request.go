package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	ID                   string                     `json:"id,omitempty"`
	Name                 string                     `json:"name"`
	Type                 string                     `json:"type"`
	Currency             string                     `json:"currency"`
	ParentID             string                     `json:"parent_id,omitempty"`
	HostID               string                     `json:"host_id,omitempty"`
	HostFeePercent       *decimal.Decimal           `json:"host_fee_percent,omitempty"`
	UseCustomHostFee     bool                       `json:"use_custom_host_fee,omitempty"`
	HostFeeOverrides     map[string]decimal.Decimal `json:"host_fee_overrides,omitempty"`
	CrossCurrencyEnabled bool                       `json:"cross_currency_enabled,omitempty"`
	PlatformTipsEnabled  bool                       `json:"platform_tips_enabled,omitempty"`
	HostFeeSharePercent  decimal.Decimal            `json:"host_fee_share_percent"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() (usecase.CreateAccountInput, error) {
	var overrides map[domain.PaymentMethodKind]decimal.Decimal
	if len(r.HostFeeOverrides) > 0 {
		overrides = make(map[domain.PaymentMethodKind]decimal.Decimal, len(r.HostFeeOverrides))
		for k, pct := range r.HostFeeOverrides {
			kind := domain.PaymentMethodKind(k)
			if !kind.Valid() {
				return usecase.CreateAccountInput{}, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidFeeConfiguration, k)
			}
			overrides[kind] = pct
		}
	}

	return usecase.CreateAccountInput{
		ID:                   r.ID,
		Name:                 r.Name,
		Type:                 domain.AccountType(r.Type),
		Currency:             r.Currency,
		ParentID:             r.ParentID,
		HostID:               r.HostID,
		HostFeePercent:       r.HostFeePercent,
		UseCustomHostFee:     r.UseCustomHostFee,
		HostFeeOverrides:     overrides,
		CrossCurrencyEnabled: r.CrossCurrencyEnabled,
		PlatformTipsEnabled:  r.PlatformTipsEnabled,
		HostFeeSharePercent:  r.HostFeeSharePercent,
	}, nil
}

// TaxRequest is a tax included in the gross amount.
type TaxRequest struct {
	ID           string          `json:"id"`
	Rate         decimal.Decimal `json:"rate"`
	TaxedCountry string          `json:"taxed_country,omitempty"`
	TaxerCountry string          `json:"taxer_country,omitempty"`
}

// RecordEventRequest describes a contribution, expense or added funds.
// Amounts are integer minor units.
type RecordEventRequest struct {
	Amount                    int64            `json:"amount"`
	Currency                  string           `json:"currency"`
	PayerAccountID            string           `json:"payer_account_id"`
	PayeeAccountID            string           `json:"payee_account_id"`
	HostAccountID             string           `json:"host_account_id"`
	SourceEventID             string           `json:"source_event_id"`
	IdempotencyKey            string           `json:"idempotency_key,omitempty"`
	PaymentMethod             string           `json:"payment_method"`
	Description               string           `json:"description,omitempty"`
	PlatformTipAmount         int64            `json:"platform_tip_amount,omitempty"`
	PaymentProcessorFeeAmount int64            `json:"payment_processor_fee_amount,omitempty"`
	HostFeePercent            *decimal.Decimal `json:"host_fee_percent,omitempty"`
	Tax                       *TaxRequest      `json:"tax,omitempty"`
	OccurredAt                *time.Time       `json:"occurred_at,omitempty"`
}

// ToDomain converts the request into an event of the given kind.
func (r *RecordEventRequest) ToDomain(kind domain.EventKind) domain.EconomicEvent {
	event := domain.EconomicEvent{
		Kind:                      kind,
		GrossAmount:               r.Amount,
		Currency:                  r.Currency,
		PayerAccountID:            r.PayerAccountID,
		PayeeAccountID:            r.PayeeAccountID,
		HostAccountID:             r.HostAccountID,
		SourceEventID:             r.SourceEventID,
		IdempotencyKey:            r.IdempotencyKey,
		PaymentMethod:             domain.PaymentMethodKind(r.PaymentMethod),
		Description:               r.Description,
		PlatformTipAmount:         r.PlatformTipAmount,
		PaymentProcessorFeeAmount: r.PaymentProcessorFeeAmount,
		HostFeePercent:            r.HostFeePercent,
	}
	if event.PaymentMethod == "" && kind == domain.EventKindAddedFunds {
		event.PaymentMethod = domain.PaymentMethodAddedFunds
	}
	if r.Tax != nil {
		event.Tax = &domain.Tax{
			ID:           r.Tax.ID,
			Rate:         r.Tax.Rate,
			TaxedCountry: r.Tax.TaxedCountry,
			TaxerCountry: r.Tax.TaxerCountry,
		}
	}
	if r.OccurredAt != nil {
		event.OccurredAt = r.OccurredAt.UTC()
	}
	return event
}

// RefundRequest refunds a recorded event. Amount defaults to what is left.
type RefundRequest struct {
	Amount             *int64 `json:"amount,omitempty"`
	ProcessorFeeAmount int64  `json:"processor_fee_amount,omitempty"`
	Description        string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RefundRequest) ToUseCaseInput(entryID string) usecase.RefundInput {
	return usecase.RefundInput{
		EntryID:            entryID,
		Amount:             r.Amount,
		ProcessorFeeAmount: r.ProcessorFeeAmount,
		Description:        r.Description,
	}
}

// PaymentWebhookRequest is a processor notification normalized by the relay.
type PaymentWebhookRequest struct {
	ChargeOrTransferID string `json:"charge_or_transfer_id"`
	SourceEventID      string `json:"source_event_id,omitempty"`
	Outcome            string `json:"outcome"`
	Fee                int64  `json:"fee,omitempty"`
}

// ToUseCaseInput validates the outcome and converts to use case input.
func (r *PaymentWebhookRequest) ToUseCaseInput() (usecase.PaymentNotification, error) {
	outcome, err := domain.ParsePaymentOutcome(r.Outcome)
	if err != nil {
		return usecase.PaymentNotification{}, err
	}
	if r.ChargeOrTransferID == "" && r.SourceEventID == "" {
		return usecase.PaymentNotification{}, fmt.Errorf("%w: charge_or_transfer_id or source_event_id is required", domain.ErrInvalidEvent)
	}
	if r.Fee < 0 {
		return usecase.PaymentNotification{}, fmt.Errorf("%w: fee cannot be negative", domain.ErrInvalidAmount)
	}
	return usecase.PaymentNotification{
		ChargeOrTransferID: r.ChargeOrTransferID,
		SourceEventID:      r.SourceEventID,
		Outcome:            outcome,
		FeeAmount:          r.Fee,
	}, nil
}

// DedupKey identifies a notification for webhook de-duplication.
func (r *PaymentWebhookRequest) DedupKey() string {
	ref := r.ChargeOrTransferID
	if ref == "" {
		ref = r.SourceEventID
	}
	return ref + ":" + r.Outcome
}

// SettlePeriodRequest selects the billing period to settle.
type SettlePeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Period validates and returns the requested period.
func (r *SettlePeriodRequest) Period() (domain.Period, error) {
	p := domain.Period{Year: r.Year, Month: time.Month(r.Month)}
	if err := p.Validate(); err != nil {
		return domain.Period{}, err
	}
	return p, nil
}
