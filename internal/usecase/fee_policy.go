package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
)

// FeeAccounts is the account hierarchy a fee decision is resolved against.
// Parent is nil when the collective has none.
type FeeAccounts struct {
	Collective *domain.Account
	Parent     *domain.Account
	Host       *domain.Account
}

// FeePolicy decides the fee split of an economic event.
type FeePolicy struct{}

// ResolveHostFeePercent walks the hierarchy and returns the first defined percent:
// explicit event percent, payment method override on the collective, then on
// the parent, custom host fee on the collective or parent, payment method
// override on the host, and finally the collective's base percent.
func (FeePolicy) ResolveHostFeePercent(event *domain.EconomicEvent, accts FeeAccounts) (decimal.Decimal, error) {
	if event.HostFeePercent != nil {
		return *event.HostFeePercent, nil
	}
	if accts.Collective == nil || accts.Host == nil {
		return decimal.Zero, fmt.Errorf("%w: collective and host are required", domain.ErrInvalidFeeConfiguration)
	}

	kind := event.PaymentMethod
	if pct, ok := accts.Collective.HostFeeOverride(kind); ok {
		return pct, nil
	}
	if pct, ok := accts.Parent.HostFeeOverride(kind); ok {
		return pct, nil
	}
	if accts.Collective.UseCustomHostFee && accts.Collective.HostFeePercent != nil {
		return *accts.Collective.HostFeePercent, nil
	}
	if accts.Parent != nil && accts.Parent.UseCustomHostFee && accts.Parent.HostFeePercent != nil {
		return *accts.Parent.HostFeePercent, nil
	}
	if pct, ok := accts.Host.HostFeeOverride(kind); ok {
		return pct, nil
	}
	if accts.Collective.HostFeePercent != nil {
		return *accts.Collective.HostFeePercent, nil
	}

	return decimal.Zero, fmt.Errorf("%w: no host fee percent for %s", domain.ErrInvalidFeeConfiguration, accts.Collective.ID)
}

// Decide computes the fee split in the event currency. The direct/debt
// choice is made here once and carried by the decision.
func (p FeePolicy) Decide(event *domain.EconomicEvent, accts FeeAccounts) (domain.FeeDecision, error) {
	decision := domain.FeeDecision{
		PaymentProcessorFeeAmount: event.PaymentProcessorFeeAmount,
		Tax:                       event.Tax,
	}

	if event.Kind == domain.EventKindExpense {
		if event.PaymentProcessorFeeAmount >= event.GrossAmount {
			return domain.FeeDecision{}, fmt.Errorf("%w: processor fee exceeds expense amount", domain.ErrInvalidFeeConfiguration)
		}
		return decision, nil
	}

	host := accts.Host
	decision.PlatformTipAmount = event.PlatformTipAmount
	decision.TaxAmount = event.Tax.Amount(event.GrossAmount)

	base := event.GrossAmount - decision.PlatformTipAmount - decision.TaxAmount
	if base < 0 {
		return domain.FeeDecision{}, fmt.Errorf("%w: tip and tax exceed the gross amount", domain.ErrInvalidFeeConfiguration)
	}

	// Money received by the host itself carries no host fee.
	if accts.Collective != nil && host != nil && accts.Collective.ID != host.ID {
		pct, err := p.ResolveHostFeePercent(event, accts)
		if err != nil {
			return domain.FeeDecision{}, err
		}
		if err := domain.ValidatePercent(pct); err != nil {
			return domain.FeeDecision{}, fmt.Errorf("%w: %w", domain.ErrInvalidFeeConfiguration, err)
		}
		decision.HostFeePercent = pct
		decision.HostFeeAmount = domain.PercentOf(base, pct)
	}

	if host != nil && host.PlatformTipsEnabled && decision.HostFeeAmount > 0 {
		decision.HostFeeSharePercent = host.HostFeeSharePercent
		decision.HostFeeShareAmount = domain.PercentOf(decision.HostFeeAmount, host.HostFeeSharePercent)
	}

	direct := event.PaymentMethod.SupportsApplicationFee() && host != nil && event.Currency == host.Currency
	decision.PlatformTipIsDebt = decision.PlatformTipAmount > 0 && !direct
	decision.HostFeeShareIsDebt = decision.HostFeeShareAmount > 0 && !direct

	fees := decision.HostFeeAmount + decision.PaymentProcessorFeeAmount + decision.TaxAmount
	if fees > event.GrossAmount-decision.PlatformTipAmount {
		return domain.FeeDecision{}, fmt.Errorf("%w: fees exceed the contribution", domain.ErrInvalidFeeConfiguration)
	}

	return decision, nil
}
