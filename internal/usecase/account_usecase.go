package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
)

// AccountUseCase registers the accounts the ledger resolves events against.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ID                   string
	Name                 string
	Type                 domain.AccountType
	Currency             string
	ParentID             string
	HostID               string
	HostFeePercent       *decimal.Decimal
	UseCustomHostFee     bool
	HostFeeOverrides     map[domain.PaymentMethodKind]decimal.Decimal
	CrossCurrencyEnabled bool
	PlatformTipsEnabled  bool
	HostFeeSharePercent  decimal.Decimal
}

// CreateAccount creates a new account. Hosts without an explicit host are
// hosted by themselves.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	account := &domain.Account{
		ID:                   id,
		Name:                 strings.TrimSpace(input.Name),
		Type:                 input.Type,
		Currency:             domain.NormalizeCurrency(input.Currency),
		ParentID:             input.ParentID,
		HostID:               input.HostID,
		HostFeePercent:       input.HostFeePercent,
		UseCustomHostFee:     input.UseCustomHostFee,
		HostFeeOverrides:     input.HostFeeOverrides,
		CrossCurrencyEnabled: input.CrossCurrencyEnabled,
		PlatformTipsEnabled:  input.PlatformTipsEnabled,
		HostFeeSharePercent:  input.HostFeeSharePercent,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if account.Type == "" {
		account.Type = domain.AccountTypeCollective
	}
	if account.Type == domain.AccountTypeHost && account.HostID == "" {
		account.HostID = account.ID
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if account.HostID != "" && account.HostID != account.ID {
		if _, err := uc.accountRepo.GetByID(ctx, account.HostID); err != nil {
			return nil, fmt.Errorf("host %s: %w", account.HostID, err)
		}
	}
	if account.ParentID != "" {
		if _, err := uc.accountRepo.GetByID(ctx, account.ParentID); err != nil {
			return nil, fmt.Errorf("parent %s: %w", account.ParentID, err)
		}
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// EnsureSystemAccounts creates the platform and payment processor accounts
// named by policy when they do not exist yet.
func (uc *AccountUseCase) EnsureSystemAccounts(ctx context.Context, policy domain.LedgerPolicy, currency string) error {
	for _, in := range []CreateAccountInput{
		{ID: policy.PlatformAccountID, Name: "Platform", Type: domain.AccountTypePlatform, Currency: currency},
		{ID: policy.PaymentProcessorAccountID, Name: "Payment processor", Type: domain.AccountTypePaymentProcessor, Currency: currency},
	} {
		if _, err := uc.CreateAccount(ctx, in); err != nil && !errors.Is(err, domain.ErrAccountExists) {
			return fmt.Errorf("ensure %s account: %w", in.Type, err)
		}
	}
	return nil
}
