package domain

import (
	"errors"
	"testing"
	"time"
)

func TestHold_Transition(t *testing.T) {
	tests := []struct {
		name    string
		kind    HoldKind
		status  HoldStatus
		outcome Outcome
		want    HoldTransition
		wantErr error
	}{
		{
			name:    "dispute won releases funds",
			kind:    HoldKindDispute,
			status:  HoldStatusActive,
			outcome: OutcomeDisputeWon,
			want:    HoldTransition{Status: HoldStatusReleased},
		},
		{
			name:    "dispute lost refunds and charges fee",
			kind:    HoldKindDispute,
			status:  HoldStatusActive,
			outcome: OutcomeDisputeLost,
			want:    HoldTransition{Status: HoldStatusCaptured, Refund: true, SkipBalanceCheck: true, ChargeDisputeFee: true},
		},
		{
			name:    "review approved",
			kind:    HoldKindReview,
			status:  HoldStatusActive,
			outcome: OutcomeApproved,
			want:    HoldTransition{Status: HoldStatusReleased},
		},
		{
			name:    "review refunded",
			kind:    HoldKindReview,
			status:  HoldStatusActive,
			outcome: OutcomeRefunded,
			want:    HoldTransition{Status: HoldStatusCaptured, Refund: true},
		},
		{
			name:    "review refunded as fraud",
			kind:    HoldKindReview,
			status:  HoldStatusActive,
			outcome: OutcomeRefundedAsFraud,
			want:    HoldTransition{Status: HoldStatusCaptured, Refund: true, SkipBalanceCheck: true},
		},
		{
			name:    "dispute outcome on review",
			kind:    HoldKindReview,
			status:  HoldStatusActive,
			outcome: OutcomeDisputeLost,
			wantErr: ErrInvalidOutcome,
		},
		{
			name:    "closed hold",
			kind:    HoldKindDispute,
			status:  HoldStatusReleased,
			outcome: OutcomeDisputeLost,
			wantErr: ErrHoldNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Hold{Kind: tt.kind, Status: tt.status}
			got, err := h.Transition(tt.outcome)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Transition() = %+v, want %+v", got, tt.want)
			}
			if h.Status != tt.status {
				t.Fatalf("Transition must not mutate the hold")
			}
		})
	}
}

func TestHold_Close(t *testing.T) {
	h := &Hold{Kind: HoldKindDispute, Status: HoldStatusActive}
	tr, err := h.Transition(OutcomeDisputeWon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	h.Close(OutcomeDisputeWon, tr, now)
	if h.Status != HoldStatusReleased || h.Outcome != OutcomeDisputeWon || h.ClosedAt == nil {
		t.Fatalf("unexpected hold after close: %+v", h)
	}
}
