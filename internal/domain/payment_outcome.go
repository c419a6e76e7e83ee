package domain

import "fmt"

// PaymentOutcome is a normalized processor notification about a charge or transfer.
type PaymentOutcome string

const (
	PaymentSucceeded      PaymentOutcome = "succeeded"
	PaymentFailed         PaymentOutcome = "failed"
	PaymentDisputed       PaymentOutcome = "disputed"
	PaymentDisputeWon     PaymentOutcome = "dispute_won"
	PaymentDisputeLost    PaymentOutcome = "dispute_lost"
	PaymentReviewed       PaymentOutcome = "reviewed"
	PaymentReviewApproved PaymentOutcome = "review_approved"
	PaymentReviewRefunded PaymentOutcome = "review_refunded"
	PaymentReviewFraud    PaymentOutcome = "review_fraud"
)

// ParsePaymentOutcome validates a webhook outcome string.
func ParsePaymentOutcome(s string) (PaymentOutcome, error) {
	o := PaymentOutcome(s)
	switch o {
	case PaymentSucceeded, PaymentFailed, PaymentDisputed, PaymentDisputeWon, PaymentDisputeLost,
		PaymentReviewed, PaymentReviewApproved, PaymentReviewRefunded, PaymentReviewFraud:
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown payment outcome %q", ErrInvalidOutcome, s)
}

// HoldOutcome maps a closing notification to the outcome applied to the active hold.
func (o PaymentOutcome) HoldOutcome() (Outcome, bool) {
	switch o {
	case PaymentDisputeWon:
		return OutcomeDisputeWon, true
	case PaymentDisputeLost:
		return OutcomeDisputeLost, true
	case PaymentReviewApproved:
		return OutcomeApproved, true
	case PaymentReviewRefunded:
		return OutcomeRefunded, true
	case PaymentReviewFraud:
		return OutcomeRefundedAsFraud, true
	}
	return "", false
}
