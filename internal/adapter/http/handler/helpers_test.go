package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/domain"
	"github.com/iho/hostledger/internal/usecase"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseBoolQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/balance?include_blocked=true", nil)
	if !parseBoolQuery(req, "include_blocked") {
		t.Fatalf("expected true")
	}

	req = httptest.NewRequest(http.MethodGet, "/balance?include_blocked=maybe", nil)
	if parseBoolQuery(req, "include_blocked") {
		t.Fatalf("expected unparsable value to be false")
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"year":2024,"month":5,"day":1}`))
	rec := httptest.NewRecorder()

	var body dto.SettlePeriodRequest
	if err := decodeJSON(rec, req, &body); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrEntryNotFound, http.StatusNotFound},
		{domain.ErrHoldNotFound, http.StatusNotFound},
		{domain.ErrSettlementNotFound, http.StatusNotFound},
		{domain.ErrDuplicateEvent, http.StatusConflict},
		{domain.ErrAccountExists, http.StatusConflict},
		{domain.ErrHoldExists, http.StatusConflict},
		{domain.ErrAlreadyRefunded, http.StatusConflict},
		{domain.ErrSettlementAlreadyPaid, http.StatusConflict},
		{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{domain.ErrCrossCurrencyNotAllowed, http.StatusUnprocessableEntity},
		{domain.ErrInvalidRefundAmount, http.StatusUnprocessableEntity},
		{domain.ErrNotPrimaryEntry, http.StatusUnprocessableEntity},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidEvent, http.StatusBadRequest},
		{domain.ErrInvalidCurrency, http.StatusBadRequest},
		{domain.ErrInvalidPeriod, http.StatusBadRequest},
		{domain.ErrInvalidFeeConfiguration, http.StatusBadRequest},
		{domain.ErrFxRateUnavailable, http.StatusServiceUnavailable},
		{usecase.ErrInconsistentLedger, http.StatusConflict},
		{fmt.Errorf("record: %w", domain.ErrDuplicateEvent), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "bad", "details")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "bad" || resp.Message != "details" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}
