package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
)

// SettlementService settles host debts.
type SettlementService interface {
	SettlePeriod(ctx context.Context, period domain.Period) ([]*domain.SettlementResult, error)
	SettleHost(ctx context.Context, hostID string, period domain.Period) (*domain.SettlementResult, error)
	PaySettlementExpense(ctx context.Context, expenseID string) (*domain.SettlementExpense, error)
	GetSettlementExpense(ctx context.Context, id string) (*domain.SettlementExpense, error)
	ListSettlementExpenses(ctx context.Context, hostID string, limit, offset int) ([]*domain.SettlementExpense, error)
}

// SettlementScheduler hands a period settlement to the job queue.
type SettlementScheduler interface {
	ScheduleSettlement(ctx context.Context, period domain.Period) error
}

// SettlementHandler handles settlement requests.
type SettlementHandler struct {
	settlementUC SettlementService
	scheduler    SettlementScheduler
}

// NewSettlementHandler creates a SettlementHandler. scheduler may be nil, in
// which case ?async=true is rejected.
func NewSettlementHandler(settlementUC SettlementService, scheduler SettlementScheduler) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, scheduler: scheduler}
}

// SettlePeriod settles every host with pending debts for {year, month}.
// With ?async=true the work is enqueued and 202 is returned.
func (h *SettlementHandler) SettlePeriod(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlePeriodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	period, err := req.Period()
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	if parseBoolQuery(r, "async") {
		if h.scheduler == nil {
			writeError(w, http.StatusNotImplemented, "settlement jobs are disabled", "")
			return
		}
		if err := h.scheduler.ScheduleSettlement(r.Context(), period); err != nil {
			writeDomainError(w, "failed to schedule settlement", err)
			return
		}
		writeJSON(w, http.StatusAccepted, dto.ScheduledResponse{Period: period.String(), Scheduled: true})
		return
	}

	results, err := h.settlementUC.SettlePeriod(r.Context(), period)
	resp := dto.SettlePeriodResponse{
		Period:  period.String(),
		Results: dto.SettlementResultsFromDomain(results),
	}
	if err != nil {
		if len(results) == 0 {
			writeDomainError(w, "failed to settle period", err)
			return
		}
		// Some hosts settled; report the failures alongside.
		resp.Errors = []string{err.Error()}
		writeJSON(w, http.StatusMultiStatus, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SettleHost settles one host for {year, month}.
func (h *SettlementHandler) SettleHost(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlePeriodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	period, err := req.Period()
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	result, err := h.settlementUC.SettleHost(r.Context(), chi.URLParam(r, "id"), period)
	if err != nil {
		writeDomainError(w, "failed to settle host", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementResultsFromDomain([]*domain.SettlementResult{result})[0])
}

// Pay pays a pending settlement expense.
func (h *SettlementHandler) Pay(w http.ResponseWriter, r *http.Request) {
	expense, err := h.settlementUC.PaySettlementExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to pay settlement expense", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementExpenseFromDomain(expense))
}

// Get returns a settlement expense.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.settlementUC.GetSettlementExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get settlement expense", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementExpenseFromDomain(expense))
}

// ListByHost lists the settlement expenses of a host.
func (h *SettlementHandler) ListByHost(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.settlementUC.ListSettlementExpenses(
		r.Context(),
		chi.URLParam(r, "id"),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, "failed to list settlement expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementExpensesFromDomain(expenses))
}
