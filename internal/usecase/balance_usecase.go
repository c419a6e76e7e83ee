package usecase

import (
	"context"
	"fmt"

	"github.com/iho/hostledger/internal/domain"
)

// BalanceUseCase derives balances from ledger rows.
type BalanceUseCase struct {
	store       LedgerStore
	accountRepo AccountRepository
	fx          FxRateProvider
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(store LedgerStore, accountRepo AccountRepository, fx FxRateProvider) *BalanceUseCase {
	return &BalanceUseCase{
		store:       store,
		accountRepo: accountRepo,
		fx:          fx,
	}
}

// BalanceOptions tunes a balance query.
type BalanceOptions struct {
	// IncludeBlocked counts rows held by a dispute or review.
	IncludeBlocked bool
}

// Balance returns the net of all rows owned by the account, in the account currency.
// Rows in another currency are taken at their recorded host-currency value
// and converted at the latest rate when the host currency differs too.
func (uc *BalanceUseCase) Balance(ctx context.Context, accountID string, opts BalanceOptions) (domain.Money, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	buckets, err := uc.store.BalanceBuckets(ctx, accountID, opts.IncludeBlocked)
	if err != nil {
		return domain.Money{}, err
	}

	return uc.sum(ctx, account.Currency, buckets)
}

// sum adds bucket nets as Money, so a bucket can only contribute in the
// account currency.
func (uc *BalanceUseCase) sum(ctx context.Context, currency string, buckets []BalanceBucket) (domain.Money, error) {
	total := domain.NewMoney(0, currency)
	var foreign []BalanceBucket
	for _, b := range buckets {
		var part domain.Money
		switch {
		case domain.NormalizeCurrency(b.Currency) == total.Currency:
			part = domain.NewMoney(b.NetAmount, b.Currency)
		case domain.NormalizeCurrency(b.HostCurrency) == total.Currency:
			part = domain.NewMoney(b.NetAmountInHostCurrency, b.HostCurrency)
		default:
			foreign = append(foreign, b)
			continue
		}
		var err error
		if total, err = total.Add(part); err != nil {
			return domain.Money{}, err
		}
	}

	if len(foreign) > 0 {
		reqs := make([]domain.FxRequest, 0, len(foreign))
		for _, b := range foreign {
			reqs = append(reqs, domain.FxRequest{From: b.HostCurrency, To: currency, Date: domain.FxLatest})
		}
		rates, err := uc.fx.Rates(ctx, reqs)
		if err != nil {
			return domain.Money{}, err
		}
		for i, b := range foreign {
			converted := domain.NewMoney(b.NetAmountInHostCurrency, b.HostCurrency).Convert(rates[reqs[i]], currency)
			if total, err = total.Add(converted); err != nil {
				return domain.Money{}, err
			}
		}
	}

	return total, nil
}

// TotalMoneyManaged returns the funds a host holds for itself and its hosted accounts.
func (uc *BalanceUseCase) TotalMoneyManaged(ctx context.Context, hostID string) (domain.Money, error) {
	host, err := uc.accountRepo.GetByID(ctx, hostID)
	if err != nil {
		return domain.Money{}, err
	}
	if !host.IsHost() {
		return domain.Money{}, fmt.Errorf("%w: %s", domain.ErrNotHost, hostID)
	}

	total, err := uc.store.ManagedByHost(ctx, hostID)
	if err != nil {
		return domain.Money{}, err
	}

	return domain.NewMoney(total, host.Currency), nil
}
