package dto

import (
	"time"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

type OpenHoldRequest struct {
	ProcessorReference string `json:"processor_reference,omitempty"`
}

type CloseHoldRequest struct {
	Outcome   string `json:"outcome"`
	FeeAmount int64  `json:"fee_amount,omitempty"`
}

func (r *CloseHoldRequest) ToUseCaseInput(holdID string) usecase.CloseHoldInput {
	return usecase.CloseHoldInput{
		HoldID:    holdID,
		Outcome:   domain.Outcome(r.Outcome),
		FeeAmount: r.FeeAmount,
	}
}

type HoldResponse struct {
	ID                 string     `json:"id"`
	GroupID            string     `json:"group_id"`
	PrimaryEntryID     string     `json:"primary_entry_id"`
	Kind               string     `json:"kind"`
	Status             string     `json:"status"`
	Outcome            string     `json:"outcome,omitempty"`
	ProcessorReference string     `json:"processor_reference,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
}

func HoldFromDomain(h *domain.Hold) *HoldResponse {
	if h == nil {
		return nil
	}
	return &HoldResponse{
		ID:                 h.ID,
		GroupID:            h.GroupID,
		PrimaryEntryID:     h.PrimaryEntryID,
		Kind:               string(h.Kind),
		Status:             string(h.Status),
		Outcome:            string(h.Outcome),
		ProcessorReference: h.ProcessorReference,
		CreatedAt:          h.CreatedAt,
		UpdatedAt:          h.UpdatedAt,
		ClosedAt:           h.ClosedAt,
	}
}

type CloseHoldResponse struct {
	Hold     *HoldResponse    `json:"hold"`
	Reversal []*EntryResponse `json:"reversal,omitempty"`
}

func CloseHoldFromResult(r *usecase.CloseHoldResult) *CloseHoldResponse {
	return &CloseHoldResponse{
		Hold:     HoldFromDomain(r.Hold),
		Reversal: EntriesFromDomain(r.Reversal),
	}
}

type PaymentWebhookResponse struct {
	Action   string           `json:"action"`
	Hold     *HoldResponse    `json:"hold,omitempty"`
	Reversal []*EntryResponse `json:"reversal,omitempty"`
}

func PaymentWebhookFromResult(r *usecase.PaymentNotificationResult) *PaymentWebhookResponse {
	return &PaymentWebhookResponse{
		Action:   r.Action,
		Hold:     HoldFromDomain(r.Hold),
		Reversal: EntriesFromDomain(r.Reversal),
	}
}
