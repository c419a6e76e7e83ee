package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidPercent     = errors.New("percent must be between 0 and 100")
)

const (
	MaxAccountNameLength = 255
	MaxEventAmount       = int64(1_000_000_000_000) // minor units

	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// Supported ISO 4217 codes.
var currencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "JPY": {},
	"CNY": {}, "AUD": {}, "CAD": {}, "CHF": {},
	"SEK": {}, "NZD": {}, "KRW": {}, "SGD": {},
	"NOK": {}, "MXN": {}, "INR": {}, "BRL": {},
	"ZAR": {}, "TRY": {}, "HKD": {}, "DKK": {},
	"PLN": {}, "CZK": {}, "HUF": {}, "ILS": {},
	"NGN": {}, "UAH": {}, "ARS": {}, "XOF": {},
}

var hundredPercent = decimal.NewFromInt(100)

// ValidateAccountName checks the name is non-blank and bounded.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}
	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}
	return nil
}

// ValidateCurrency accepts supported ISO 4217 codes in any case.
func ValidateCurrency(currency string) error {
	if _, ok := currencies[NormalizeCurrency(currency)]; !ok {
		return fmt.Errorf("%w: %q is not a supported ISO 4217 currency code", ErrInvalidCurrency, currency)
	}
	return nil
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidateAmount validates an event amount in minor units.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > MaxEventAmount {
		return fmt.Errorf("%w: maximum amount is %d", ErrAmountTooLarge, MaxEventAmount)
	}
	return nil
}

// ValidatePercent checks 0 <= pct <= 100.
func ValidatePercent(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundredPercent) {
		return fmt.Errorf("%w: got %s", ErrInvalidPercent, pct)
	}
	return nil
}

// ValidatePagination applies the default page size and clamps the window.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return min(limit, MaxPageSize), max(offset, 0)
}
