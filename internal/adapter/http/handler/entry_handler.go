package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

// EntryService reads ledger rows.
type EntryService interface {
	EntryReader
	GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.LedgerEntry, error)
}

// Refunder refunds recorded events.
type Refunder interface {
	Refund(ctx context.Context, in usecase.RefundInput) (domain.EntryGroup, error)
}

// EntryHandler handles ledger row requests.
type EntryHandler struct {
	entryUC  EntryService
	refundUC Refunder
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService, refundUC Refunder) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, refundUC: refundUC}
}

// Get returns one row.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// ListByAccount lists the rows owned by an account, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	resp := dto.EntriesFromDomain(entries)
	if resp == nil {
		resp = []*dto.EntryResponse{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGroup returns every row of a group.
func (h *EntryHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.entryUC.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get group", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// Refund refunds the event whose primary credit is {id}.
func (h *EntryHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req dto.RefundRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	reversal, err := h.refundUC.Refund(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to refund entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(reversal))
}
