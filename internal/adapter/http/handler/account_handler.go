package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// BalanceService computes balances.
type BalanceService interface {
	Balance(ctx context.Context, accountID string, opts usecase.BalanceOptions) (domain.Money, error)
	TotalMoneyManaged(ctx context.Context, hostID string) (domain.Money, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	balanceUC BalanceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, balanceUC BalanceService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, balanceUC: balanceUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid account", err)
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Balance returns the balance of an account in its own currency.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	includeBlocked := parseBoolQuery(r, "include_blocked")

	balance, err := h.balanceUC.Balance(r.Context(), id, usecase.BalanceOptions{IncludeBlocked: includeBlocked})
	if err != nil {
		writeDomainError(w, "failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID:      id,
		Amount:         balance.Amount,
		Currency:       balance.Currency,
		IncludeBlocked: includeBlocked,
	})
}

// MoneyManaged returns what a host holds for itself and the accounts it hosts.
func (h *AccountHandler) MoneyManaged(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	total, err := h.balanceUC.TotalMoneyManaged(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to compute money managed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MoneyManagedResponse{
		HostID:   id,
		Amount:   total.Amount,
		Currency: total.Currency,
	})
}
