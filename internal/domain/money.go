package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is an amount of integer minor units tagged with an ISO 4217 currency code.
// A minor unit is a hundredth of the major unit for every currency, JPY included.
type Money struct {
	Amount   int64
	Currency string
}

// NewMoney normalizes the currency code.
func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: NormalizeCurrency(currency)}
}

// Add returns m + o. Both operands must share a currency.
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}, nil
}

// Sub returns m - o. Both operands must share a currency.
func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount - o.Amount, Currency: m.Currency}, nil
}

func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// Convert multiplies by rate and rounds to the nearest minor unit of the target currency.
func (m Money) Convert(rate decimal.Decimal, to string) Money {
	return NewMoney(ConvertAmount(m.Amount, rate), to)
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

// Format renders the amount in major units, e.g. "85.50 USD".
func (m Money) Format() string {
	return decimal.New(m.Amount, -2).StringFixed(2) + " " + m.Currency
}

// RoundMinor rounds half away from zero to an integer minor unit.
func RoundMinor(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// ConvertAmount converts a minor-unit amount with the given rate.
func ConvertAmount(amount int64, rate decimal.Decimal) int64 {
	return RoundMinor(decimal.NewFromInt(amount).Mul(rate))
}

// PercentOf returns round(amount * percent / 100).
func PercentOf(amount int64, percent decimal.Decimal) int64 {
	return RoundMinor(decimal.NewFromInt(amount).Mul(percent).Div(hundred))
}

// ScaleAmount returns round(amount * num / den). den must be non-zero.
func ScaleAmount(amount, num, den int64) int64 {
	return RoundMinor(decimal.NewFromInt(amount).Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den)))
}
