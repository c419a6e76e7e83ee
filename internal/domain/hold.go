package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrHoldNotFound   = errors.New("hold not found")
	ErrHoldNotActive  = errors.New("hold is not active")
	ErrHoldExists     = errors.New("group already has an active hold")
	ErrGroupOnHold    = errors.New("group is blocked by an active hold")
	ErrInvalidOutcome = errors.New("outcome does not apply to hold")
)

// HoldKind distinguishes processor disputes from manual fraud reviews.
type HoldKind string

const (
	HoldKindDispute HoldKind = "DISPUTE"
	HoldKindReview  HoldKind = "REVIEW"
)

type HoldStatus string

const (
	HoldStatusActive   HoldStatus = "ACTIVE"
	HoldStatusReleased HoldStatus = "RELEASED"
	HoldStatusCaptured HoldStatus = "CAPTURED"
)

// Outcome closes a hold.
type Outcome string

const (
	OutcomeDisputeWon      Outcome = "dispute_won"
	OutcomeDisputeLost     Outcome = "dispute_lost"
	OutcomeApproved        Outcome = "approved"
	OutcomeRefunded        Outcome = "refunded"
	OutcomeRefundedAsFraud Outcome = "refunded_as_fraud"
)

// Hold blocks the funds of a ledger group while a dispute or review is open.
type Hold struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time

	ID                 string
	GroupID            string
	PrimaryEntryID     string
	Kind               HoldKind
	Status             HoldStatus
	Outcome            Outcome
	ProcessorReference string
}

// HoldTransition is the result of applying an Outcome to an active hold.
type HoldTransition struct {
	Status HoldStatus
	// Refund requests a full reversal of the held group.
	Refund bool
	// SkipBalanceCheck is set when the funds already left the platform.
	SkipBalanceCheck bool
	// ChargeDisputeFee records the processor dispute fee against the host.
	ChargeDisputeFee bool
}

// Transition returns the next state for outcome without mutating h.
func (h *Hold) Transition(outcome Outcome) (HoldTransition, error) {
	if h.Status != HoldStatusActive {
		return HoldTransition{}, ErrHoldNotActive
	}

	switch h.Kind {
	case HoldKindDispute:
		switch outcome {
		case OutcomeDisputeWon:
			return HoldTransition{Status: HoldStatusReleased}, nil
		case OutcomeDisputeLost:
			return HoldTransition{
				Status:           HoldStatusCaptured,
				Refund:           true,
				SkipBalanceCheck: true,
				ChargeDisputeFee: true,
			}, nil
		}
	case HoldKindReview:
		switch outcome {
		case OutcomeApproved:
			return HoldTransition{Status: HoldStatusReleased}, nil
		case OutcomeRefunded:
			return HoldTransition{Status: HoldStatusCaptured, Refund: true}, nil
		case OutcomeRefundedAsFraud:
			return HoldTransition{Status: HoldStatusCaptured, Refund: true, SkipBalanceCheck: true}, nil
		}
	}

	return HoldTransition{}, fmt.Errorf("%w: %s on %s", ErrInvalidOutcome, outcome, h.Kind)
}

// Close applies a transition computed by Transition.
func (h *Hold) Close(outcome Outcome, t HoldTransition, at time.Time) {
	h.Status = t.Status
	h.Outcome = outcome
	h.UpdatedAt = at
	h.ClosedAt = &at
}
