package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/hostledger/internal/infrastructure/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	var seenID string
	h := chimiddleware.RequestID(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logger.RequestID(r.Context())
		logger.FromContext(r.Context(), zerolog.Nop()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusAccepted)
	})))

	req := httptest.NewRequest(http.MethodPost, "/settlements", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seenID != "req-42" {
		t.Fatalf("expected request id in context, got %q", seenID)
	}
	if got := rr.Header().Get(RequestIDHeader); got != "req-42" {
		t.Fatalf("expected request id header, got %q", got)
	}

	out := buf.String()
	if strings.Count(out, `"request_id":"req-42"`) != 2 {
		t.Fatalf("expected handler and access log lines to carry the request id, got %s", out)
	}
	if !strings.Contains(out, `"status":202`) {
		t.Fatalf("expected status in access log, got %s", out)
	}
}

func TestLoggingMiddleware_LevelAndIdempotencyKey(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusCreated, `"level":"info"`},
		{http.StatusConflict, `"level":"warn"`},
		{http.StatusInternalServerError, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			mw := NewLoggingMiddleware(zerolog.New(&buf))
			h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{}`))
			}))

			req := httptest.NewRequest(http.MethodPost, "/events", nil)
			req.Header.Set(IdempotencyKeyHeader, "order-7")
			h.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			for _, want := range []string{tt.wantLevel, `"idempotency_key":"order-7"`, `"bytes":2`} {
				if !strings.Contains(out, want) {
					t.Fatalf("expected %s in access log, got %s", want, out)
				}
			}
		})
	}
}
