package domain

import "errors"

var (
	// Money and currency errors
	ErrCurrencyMismatch        = errors.New("cannot combine amounts in different currencies")
	ErrCrossCurrencyNotAllowed = errors.New("host does not allow cross-currency transactions")
	ErrFxRateUnavailable       = errors.New("fx rate unavailable")

	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotHost             = errors.New("account is not a host")

	// Event errors
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidEvent            = errors.New("invalid economic event")
	ErrDuplicateEvent          = errors.New("event already recorded")
	ErrInvalidFeeConfiguration = errors.New("invalid fee configuration")

	// Entry errors
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrNotPrimaryEntry     = errors.New("entry is not the primary credit of an event")
	ErrAlreadyRefunded     = errors.New("event already fully refunded")
	ErrInvalidRefundAmount = errors.New("refund amount exceeds refundable amount")

	// Settlement errors
	ErrInvalidPeriod         = errors.New("invalid billing period")
	ErrSettlementNotFound    = errors.New("settlement expense not found")
	ErrSettlementAlreadyPaid = errors.New("settlement expense already paid")
)
