package handler

import (
	"context"
	"net/http"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
)

// EventRecorder records economic events as ledger groups.
type EventRecorder interface {
	Record(ctx context.Context, event domain.EconomicEvent) (*domain.LedgerEntry, error)
}

// EntryReader reads ledger rows.
type EntryReader interface {
	GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetGroup(ctx context.Context, groupID string) (domain.EntryGroup, error)
}

// EventHandler records contributions, expenses and added funds.
type EventHandler struct {
	events  EventRecorder
	entries EntryReader
}

func NewEventHandler(events EventRecorder, entries EntryReader) *EventHandler {
	return &EventHandler{events: events, entries: entries}
}

func (h *EventHandler) RecordContribution(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.EventKindContribution)
}

func (h *EventHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.EventKindExpense)
}

func (h *EventHandler) RecordAddedFunds(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.EventKindAddedFunds)
}

// record responds with the whole group written for the event.
func (h *EventHandler) record(w http.ResponseWriter, r *http.Request, kind domain.EventKind) {
	var req dto.RecordEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	primary, err := h.events.Record(r.Context(), req.ToDomain(kind))
	if err != nil {
		writeDomainError(w, "failed to record event", err)
		return
	}

	group, err := h.entries.GetGroup(r.Context(), primary.GroupID)
	if err != nil {
		writeDomainError(w, "event recorded but group could not be read", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(group))
}
