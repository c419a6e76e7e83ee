package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/adapter/http/dto"
)

func TestEventHandler_RecordContribution(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/events/contributions", contribution("order-1", 10000, 0, "CREDIT_CARD"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	group := decode[dto.GroupResponse](t, rec)
	require.NotEmpty(t, group.GroupID)
	require.Len(t, group.Entries, 6, "primary, host fee and host fee share pairs")

	var sum int64
	for _, e := range group.Entries {
		assert.Equal(t, group.GroupID, e.GroupID)
		sum += e.Amount
	}
	assert.Zero(t, sum)

	rec = api.do(t, http.MethodPost, "/events/contributions", contribution("order-1", 10000, 0, "CREDIT_CARD"))
	assert.Equal(t, http.StatusConflict, rec.Code, "same source event is recorded once")
}

func TestEventHandler_RecordExpenseAndAddedFunds(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/events/added-funds", map[string]any{
		"amount":           5000,
		"currency":         "USD",
		"payer_account_id": "host",
		"payee_account_id": "collective",
		"host_account_id":  "host",
		"source_event_id":  "added-1",
		"host_fee_percent": "0",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "ADDED_FUNDS", decode[dto.GroupResponse](t, rec).Entries[0].Kind)

	rec = api.do(t, http.MethodPost, "/events/expenses", map[string]any{
		"amount":           2000,
		"currency":         "USD",
		"payer_account_id": "collective",
		"payee_account_id": "user",
		"host_account_id":  "host",
		"source_event_id":  "expense-1",
		"payment_method":   "BANK_TRANSFER",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/accounts/collective/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3000), decode[dto.BalanceResponse](t, rec).Amount)
}

func TestEventHandler_RecordRejections(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "zero amount",
			body: contribution("order-1", 0, 0, "CREDIT_CARD"),
			want: http.StatusBadRequest,
		},
		{
			name: "unknown payment method",
			body: contribution("order-2", 1000, 0, "CHEQUE"),
			want: http.StatusBadRequest,
		},
		{
			name: "unknown payee",
			body: func() map[string]any {
				b := contribution("order-3", 1000, 0, "CREDIT_CARD")
				b["payee_account_id"] = "ghost"
				return b
			}(),
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/events/contributions", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := api.do(t, http.MethodPost, "/events/expenses", map[string]any{
		"amount":           1_000_000,
		"currency":         "USD",
		"payer_account_id": "collective",
		"payee_account_id": "user",
		"host_account_id":  "host",
		"source_event_id":  "expense-big",
		"payment_method":   "BANK_TRANSFER",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "expenses cannot overdraw the payer")
}
