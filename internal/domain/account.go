package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType identifies the role of an account in the hosting hierarchy.
type AccountType string

const (
	AccountTypeUser             AccountType = "USER"
	AccountTypeOrganization     AccountType = "ORGANIZATION"
	AccountTypeCollective       AccountType = "COLLECTIVE"
	AccountTypeHost             AccountType = "HOST"
	AccountTypePlatform         AccountType = "PLATFORM"
	AccountTypePaymentProcessor AccountType = "PAYMENT_PROCESSOR"
	AccountTypeTaxAuthority     AccountType = "TAX_AUTHORITY"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeUser, AccountTypeOrganization, AccountTypeCollective, AccountTypeHost,
		AccountTypePlatform, AccountTypePaymentProcessor, AccountTypeTaxAuthority:
		return true
	}
	return false
}

// Account is the slice of the account hierarchy the ledger reads.
// A host account is hosted by itself.
type Account struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	ID       string
	Name     string
	Type     AccountType
	Currency string
	ParentID string
	HostID   string

	// Fee settings. HostFeePercent is nil when the account defines none.
	HostFeePercent   *decimal.Decimal
	UseCustomHostFee bool
	HostFeeOverrides map[PaymentMethodKind]decimal.Decimal

	// Host plan settings.
	CrossCurrencyEnabled bool
	PlatformTipsEnabled  bool
	HostFeeSharePercent  decimal.Decimal
}

// IsHost reports whether the account hosts itself.
func (a *Account) IsHost() bool {
	return a.Type == AccountTypeHost || (a.HostID != "" && a.HostID == a.ID)
}

// IsHostedBy reports whether the account's funds are held by hostID.
func (a *Account) IsHostedBy(hostID string) bool {
	return hostID != "" && a.HostID == hostID
}

// HostFeeOverride returns the payment-method specific host fee percent, if set.
func (a *Account) HostFeeOverride(kind PaymentMethodKind) (decimal.Decimal, bool) {
	if a == nil || a.HostFeeOverrides == nil {
		return decimal.Zero, false
	}
	pct, ok := a.HostFeeOverrides[kind]
	return pct, ok
}

// Validate checks account fields.
func (a *Account) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return err
	}
	if a.HostFeePercent != nil {
		if err := ValidatePercent(*a.HostFeePercent); err != nil {
			return err
		}
	}
	for _, pct := range a.HostFeeOverrides {
		if err := ValidatePercent(pct); err != nil {
			return err
		}
	}
	return ValidatePercent(a.HostFeeSharePercent)
}
