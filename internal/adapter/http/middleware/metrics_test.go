package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/hostledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		pattern    string
		statusCode int
	}{
		{
			name:       "uses route pattern for ids",
			method:     http.MethodGet,
			path:       "/accounts/01J0ABC123",
			pattern:    "/accounts/{id}",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "nested pattern",
			method:     http.MethodPost,
			path:       "/entries/01J0XYZ/refund",
			pattern:    "/entries/{id}/refund",
			statusCode: http.StatusCreated,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nope",
			pattern:    "unmatched",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())

			status := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(tc.statusCode) }
			r := chi.NewRouter()
			r.Use(Metrics(m))
			r.Get("/accounts/{id}", status)
			r.Post("/entries/{id}/refund", status)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.pattern, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
			if got := testutil.CollectAndCount(m.HTTPDuration); got != 1 {
				t.Fatalf("expected one duration series, got %d", got)
			}
		})
	}
}
