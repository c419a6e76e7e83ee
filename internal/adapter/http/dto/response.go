package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                   string                     `json:"id"`
	Name                 string                     `json:"name"`
	Type                 string                     `json:"type"`
	Currency             string                     `json:"currency"`
	ParentID             string                     `json:"parent_id,omitempty"`
	HostID               string                     `json:"host_id,omitempty"`
	HostFeePercent       *decimal.Decimal           `json:"host_fee_percent,omitempty"`
	UseCustomHostFee     bool                       `json:"use_custom_host_fee"`
	HostFeeOverrides     map[string]decimal.Decimal `json:"host_fee_overrides,omitempty"`
	CrossCurrencyEnabled bool                       `json:"cross_currency_enabled"`
	PlatformTipsEnabled  bool                       `json:"platform_tips_enabled"`
	HostFeeSharePercent  decimal.Decimal            `json:"host_fee_share_percent"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		Type:                 string(a.Type),
		Currency:             a.Currency,
		ParentID:             a.ParentID,
		HostID:               a.HostID,
		HostFeePercent:       a.HostFeePercent,
		UseCustomHostFee:     a.UseCustomHostFee,
		CrossCurrencyEnabled: a.CrossCurrencyEnabled,
		PlatformTipsEnabled:  a.PlatformTipsEnabled,
		HostFeeSharePercent:  a.HostFeeSharePercent,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if len(a.HostFeeOverrides) > 0 {
		resp.HostFeeOverrides = make(map[string]decimal.Decimal, len(a.HostFeeOverrides))
		for k, pct := range a.HostFeeOverrides {
			resp.HostFeeOverrides[string(k)] = pct
		}
	}
	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a ledger row in API responses.
type EntryResponse struct {
	ID                            string          `json:"id"`
	GroupID                       string          `json:"group_id"`
	Direction                     string          `json:"direction"`
	Kind                          string          `json:"kind"`
	Amount                        int64           `json:"amount"`
	Currency                      string          `json:"currency"`
	AmountInHostCurrency          int64           `json:"amount_in_host_currency"`
	HostCurrency                  string          `json:"host_currency"`
	HostCurrencyFxRate            decimal.Decimal `json:"host_currency_fx_rate"`
	NetAmountInCollectiveCurrency int64           `json:"net_amount_in_collective_currency"`
	NetAmountInHostCurrency       int64           `json:"net_amount_in_host_currency"`
	PayerAccountID                string          `json:"payer_account_id"`
	PayeeAccountID                string          `json:"payee_account_id"`
	HostAccountID                 string          `json:"host_account_id,omitempty"`
	SourceEventID                 string          `json:"source_event_id"`
	IdempotencyKey                string          `json:"idempotency_key,omitempty"`
	MirrorEntryID                 string          `json:"mirror_entry_id,omitempty"`
	ReversalOfEntryID             string          `json:"reversal_of_entry_id,omitempty"`
	Description                   string          `json:"description,omitempty"`
	IsRefund                      bool            `json:"is_refund"`
	IsDisputed                    bool            `json:"is_disputed"`
	IsInReview                    bool            `json:"is_in_review"`
	SettlementStatus              string          `json:"settlement_status,omitempty"`
	CreatedAt                     time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain row to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:                            e.ID,
		GroupID:                       e.GroupID,
		Direction:                     string(e.Direction),
		Kind:                          string(e.Kind),
		Amount:                        e.Amount,
		Currency:                      e.Currency,
		AmountInHostCurrency:          e.AmountInHostCurrency,
		HostCurrency:                  e.HostCurrency,
		HostCurrencyFxRate:            e.HostCurrencyFxRate,
		NetAmountInCollectiveCurrency: e.NetAmountInCollectiveCurrency,
		NetAmountInHostCurrency:       e.NetAmountInHostCurrency,
		PayerAccountID:                e.PayerAccountID,
		PayeeAccountID:                e.PayeeAccountID,
		HostAccountID:                 e.HostAccountID,
		SourceEventID:                 e.SourceEventID,
		IdempotencyKey:                e.IdempotencyKey,
		MirrorEntryID:                 e.MirrorEntryID,
		ReversalOfEntryID:             e.ReversalOfEntryID,
		Description:                   e.Description,
		IsRefund:                      e.IsRefund,
		IsDisputed:                    e.IsDisputed,
		IsInReview:                    e.IsInReview,
		SettlementStatus:              string(e.SettlementStatus),
		CreatedAt:                     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain rows to responses. A nil input stays nil.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	if entries == nil {
		return nil
	}
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// GroupResponse is every row written for one economic event.
type GroupResponse struct {
	GroupID string           `json:"group_id"`
	Entries []*EntryResponse `json:"entries"`
}

// GroupFromDomain converts a group to response.
func GroupFromDomain(group domain.EntryGroup) *GroupResponse {
	resp := &GroupResponse{Entries: make([]*EntryResponse, 0, len(group))}
	for _, e := range group {
		resp.GroupID = e.GroupID
		resp.Entries = append(resp.Entries, EntryFromDomain(e))
	}
	return resp
}

// BalanceResponse is an account balance in the account currency.
type BalanceResponse struct {
	AccountID      string `json:"account_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	IncludeBlocked bool   `json:"include_blocked"`
}

// MoneyManagedResponse is the total held by a host for itself and its hosted accounts.
type MoneyManagedResponse struct {
	HostID   string `json:"host_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// SettlementExpenseResponse represents a settlement expense.
type SettlementExpenseResponse struct {
	ID             string     `json:"id"`
	HostAccountID  string     `json:"host_account_id"`
	PayerAccountID string     `json:"payer_account_id"`
	PayeeAccountID string     `json:"payee_account_id"`
	Amount         int64      `json:"amount"`
	Currency       string     `json:"currency"`
	Period         string     `json:"period"`
	Status         string     `json:"status"`
	EntryIDs       []string   `json:"entry_ids"`
	PaidGroupID    string     `json:"paid_group_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// SettlementExpenseFromDomain converts a settlement expense to response.
func SettlementExpenseFromDomain(e *domain.SettlementExpense) *SettlementExpenseResponse {
	if e == nil {
		return nil
	}
	return &SettlementExpenseResponse{
		ID:             e.ID,
		HostAccountID:  e.HostAccountID,
		PayerAccountID: e.PayerAccountID,
		PayeeAccountID: e.PayeeAccountID,
		Amount:         e.Amount.Amount,
		Currency:       e.Amount.Currency,
		Period:         e.Period.String(),
		Status:         string(e.Status),
		EntryIDs:       e.EntryIDs,
		PaidGroupID:    e.PaidGroupID,
		CreatedAt:      e.CreatedAt,
		PaidAt:         e.PaidAt,
	}
}

// SettlementExpensesFromDomain converts settlement expenses to responses.
func SettlementExpensesFromDomain(expenses []*domain.SettlementExpense) []*SettlementExpenseResponse {
	result := make([]*SettlementExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = SettlementExpenseFromDomain(e)
	}
	return result
}

// SettlementResultResponse reports one host's settlement run.
type SettlementResultResponse struct {
	HostAccountID  string                     `json:"host_account_id"`
	Period         string                     `json:"period"`
	EntryCount     int                        `json:"entry_count"`
	AlreadySettled bool                       `json:"already_settled"`
	Expense        *SettlementExpenseResponse `json:"expense,omitempty"`
}

// SettlePeriodResponse lists the results of a period settlement.
type SettlePeriodResponse struct {
	Period  string                      `json:"period"`
	Results []*SettlementResultResponse `json:"results"`
	Errors  []string                    `json:"errors,omitempty"`
}

// SettlementResultsFromDomain converts settlement results to responses.
func SettlementResultsFromDomain(results []*domain.SettlementResult) []*SettlementResultResponse {
	out := make([]*SettlementResultResponse, len(results))
	for i, r := range results {
		out[i] = &SettlementResultResponse{
			HostAccountID:  r.HostAccountID,
			Period:         r.Period.String(),
			EntryCount:     r.EntryCount,
			AlreadySettled: r.AlreadySettled,
			Expense:        SettlementExpenseFromDomain(r.Expense),
		}
	}
	return out
}

// ScheduledResponse acknowledges work handed to the job queue.
type ScheduledResponse struct {
	Period    string `json:"period"`
	Scheduled bool   `json:"scheduled"`
}

// GroupImbalanceResponse is a group whose rows do not sum to zero.
type GroupImbalanceResponse struct {
	GroupID              string `json:"group_id"`
	Amount               int64  `json:"amount"`
	AmountInHostCurrency int64  `json:"amount_in_host_currency"`
}

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent bool                      `json:"consistent"`
	Unbalanced []*GroupImbalanceResponse `json:"unbalanced"`
	CheckedAt  time.Time                 `json:"checked_at"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Consistent: r.Consistent,
		Unbalanced: make([]*GroupImbalanceResponse, len(r.Unbalanced)),
		CheckedAt:  r.CheckedAt,
	}
	for i, g := range r.Unbalanced {
		resp.Unbalanced[i] = &GroupImbalanceResponse{
			GroupID:              g.GroupID,
			Amount:               g.Amount,
			AmountInHostCurrency: g.AmountInHostCurrency,
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
