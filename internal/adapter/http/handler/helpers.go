package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// decodeJSON decodes a size-limited JSON body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrHoldNotFound),
		errors.Is(err, domain.ErrSettlementNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDuplicateEvent),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrHoldExists),
		errors.Is(err, domain.ErrGroupOnHold),
		errors.Is(err, domain.ErrHoldNotActive),
		errors.Is(err, domain.ErrAlreadyRefunded),
		errors.Is(err, domain.ErrSettlementAlreadyPaid):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrCrossCurrencyNotAllowed),
		errors.Is(err, domain.ErrInvalidRefundAmount),
		errors.Is(err, domain.ErrNotPrimaryEntry),
		errors.Is(err, domain.ErrInvalidOutcome),
		errors.Is(err, domain.ErrNotHost):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, domain.ErrInvalidFeeConfiguration),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidPercent):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrFxRateUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, usecase.ErrInconsistentLedger):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseBoolQuery parses a boolean query parameter; anything unparsable is false.
func parseBoolQuery(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
