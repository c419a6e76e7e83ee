package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

type HoldService interface {
	CreateDispute(ctx context.Context, entryID, processorReference string) (*domain.Hold, error)
	OpenReview(ctx context.Context, entryID, processorReference string) (*domain.Hold, error)
	CloseHold(ctx context.Context, in usecase.CloseHoldInput) (*usecase.CloseHoldResult, error)
}

type HoldHandler struct {
	holdUC HoldService
}

func NewHoldHandler(holdUC HoldService) *HoldHandler {
	return &HoldHandler{holdUC: holdUC}
}

func (h *HoldHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.holdUC.CreateDispute)
}

func (h *HoldHandler) OpenReview(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.holdUC.OpenReview)
}

func (h *HoldHandler) open(w http.ResponseWriter, r *http.Request, openFn func(context.Context, string, string) (*domain.Hold, error)) {
	var req dto.OpenHoldRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	hold, err := openFn(r.Context(), chi.URLParam(r, "id"), req.ProcessorReference)
	if err != nil {
		writeDomainError(w, "failed to open hold", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.HoldFromDomain(hold))
}

func (h *HoldHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing hold id", "")
		return
	}

	var req dto.CloseHoldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.holdUC.CloseHold(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to close hold", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CloseHoldFromResult(result))
}
