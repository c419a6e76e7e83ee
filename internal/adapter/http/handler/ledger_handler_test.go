package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/adapter/http/dto"
	"github.com/iho/hostledger/internal/usecase"
)

type stubChecker struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s stubChecker) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func TestLedgerHandler_Consistent(t *testing.T) {
	api := newTestAPI(t)
	recordContribution(t, api, "order-1", 10000)

	rec := api.do(t, http.MethodGet, "/ledger/consistency", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[dto.ConsistencyResponse](t, rec)
	assert.True(t, resp.Consistent)
	assert.Empty(t, resp.Unbalanced)
}

func TestLedgerHandler_Inconsistent(t *testing.T) {
	report := &usecase.ConsistencyReport{
		Consistent: false,
		Unbalanced: []usecase.GroupImbalance{{GroupID: "g-1", Amount: 10}},
		CheckedAt:  time.Now(),
	}
	h := NewLedgerHandler(stubChecker{report: report, err: usecase.ErrInconsistentLedger})

	rec := httptest.NewRecorder()
	h.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[dto.ConsistencyResponse](t, rec)
	assert.False(t, resp.Consistent)
	require.Len(t, resp.Unbalanced, 1)
	assert.Equal(t, "g-1", resp.Unbalanced[0].GroupID)
}

func TestLedgerHandler_StoreError(t *testing.T) {
	h := NewLedgerHandler(stubChecker{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
