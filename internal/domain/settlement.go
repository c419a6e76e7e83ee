package domain

import (
	"fmt"
	"time"
)

// Period is a monthly billing period.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) Validate() error {
	if p.Year < 2000 || p.Year > 9999 || p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("%w: %d-%d", ErrInvalidPeriod, p.Year, p.Month)
	}
	return nil
}

// Start is the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant after the period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Previous returns the preceding period.
func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

type SettlementExpenseStatus string

const (
	SettlementExpensePending SettlementExpenseStatus = "PENDING"
	SettlementExpensePaid    SettlementExpenseStatus = "PAID"
)

// SettlementExpense is the payable created for a host and a billing period.
// The amount is expressed in the host currency and is never negative; the
// direction is carried by the payer and payee.
type SettlementExpense struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time

	ID             string
	HostAccountID  string
	PayerAccountID string
	PayeeAccountID string
	Amount         Money
	Period         Period
	Status         SettlementExpenseStatus
	EntryIDs       []string
	PaidGroupID    string
}

// SettlementResult reports what a settlement run did for one host.
type SettlementResult struct {
	HostAccountID string
	Period        Period
	Expense       *SettlementExpense
	EntryCount    int
	// AlreadySettled is set when the period had been settled before.
	AlreadySettled bool
}
