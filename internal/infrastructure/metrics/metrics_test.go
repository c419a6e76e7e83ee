package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.GroupsRecorded.WithLabelValues("CONTRIBUTION").Inc()
	m.GroupsRecorded.WithLabelValues("CONTRIBUTION").Inc()
	m.GroupsRecorded.WithLabelValues("EXPENSE").Inc()
	m.EntriesWritten.Add(6)
	m.SettlementsInvoiced.Inc()
	m.OutboxBacklog.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GroupsRecorded.WithLabelValues("CONTRIBUTION")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.EntriesWritten))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutboxBacklog))

	count, err := testutil.GatherAndCount(registry, "hostledger_groups_recorded_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per event kind")

	err = testutil.GatherAndCompare(registry, strings.NewReader(`
# HELP hostledger_settlements_invoiced_total Total number of settlement expenses created
# TYPE hostledger_settlements_invoiced_total counter
hostledger_settlements_invoiced_total 1
`), "hostledger_settlements_invoiced_total")
	require.NoError(t, err)
}

func TestMetricNamesArePrefixed(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.HTTPRequests.WithLabelValues("GET", "/accounts/{id}/balance", "200").Inc()
	m.FxLookups.WithLabelValues("cache").Inc()

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, mf := range families {
		assert.True(t, strings.HasPrefix(mf.GetName(), "hostledger_"), mf.GetName())
	}
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_ = New(registry)

	assert.Panics(t, func() { New(registry) })
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
