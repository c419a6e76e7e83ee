package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	GroupsRecorded *prometheus.CounterVec
	EntriesWritten prometheus.Counter
	RecordDuration prometheus.Histogram
	RecordErrors   *prometheus.CounterVec
	EventAmount    *prometheus.HistogramVec

	// Reversal metrics
	Refunds      *prometheus.CounterVec
	HoldsOpened  *prometheus.CounterVec
	HoldsClosed  *prometheus.CounterVec
	HoldDuration prometheus.Histogram

	// Settlement metrics
	SettlementsInvoiced prometheus.Counter
	SettlementsSkipped  prometheus.Counter
	SettlementsPaid     prometheus.Counter
	SettlementDuration  prometheus.Histogram
	SettlementErrors    prometheus.Counter

	// FX metrics
	FxLookups *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished     *prometheus.CounterVec
	OutboxPublishErrors prometheus.Counter
	OutboxBacklog       prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		GroupsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_groups_recorded_total",
				Help: "Total number of ledger groups recorded by event kind",
			},
			[]string{"kind"},
		),
		EntriesWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "hostledger_entries_written_total",
			Help: "Total number of ledger rows written",
		}),
		RecordDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hostledger_record_duration_seconds",
			Help:    "Duration of event recording",
			Buckets: prometheus.DefBuckets,
		}),
		RecordErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_record_errors_total",
				Help: "Total number of event recording errors by type",
			},
			[]string{"error_type"},
		),
		EventAmount: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hostledger_event_amount_minor_units",
				Help:    "Gross event amounts in minor units",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"currency"},
		),

		// Reversal metrics
		Refunds: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_refunds_total",
				Help: "Total number of refunds by scope",
			},
			[]string{"scope"},
		),
		HoldsOpened: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_holds_opened_total",
				Help: "Total number of dispute and review holds opened",
			},
			[]string{"kind"},
		),
		HoldsClosed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_holds_closed_total",
				Help: "Total number of holds closed by outcome",
			},
			[]string{"kind", "outcome"},
		),
		HoldDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hostledger_hold_duration_seconds",
			Help:    "Duration of hold operations",
			Buckets: prometheus.DefBuckets,
		}),

		// Settlement metrics
		SettlementsInvoiced: f.NewCounter(prometheus.CounterOpts{
			Name: "hostledger_settlements_invoiced_total",
			Help: "Total number of settlement expenses created",
		}),
		SettlementsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "hostledger_settlements_skipped_total",
			Help: "Total number of settlement runs skipped because the period was already settled",
		}),
		SettlementsPaid: f.NewCounter(prometheus.CounterOpts{
			Name: "hostledger_settlements_paid_total",
			Help: "Total number of settlement expenses paid",
		}),
		SettlementDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hostledger_settlement_duration_seconds",
			Help:    "Duration of a host settlement",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "hostledger_settlement_errors_total",
			Help: "Total number of failed host settlements",
		}),

		// FX metrics
		FxLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_fx_lookups_total",
				Help: "FX rate lookups by result",
			},
			[]string{"result"},
		),

		// Outbox metrics
		OutboxPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_outbox_published_total",
				Help: "Outbox events published by event type",
			},
			[]string{"event_type"},
		),
		OutboxPublishErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "hostledger_outbox_publish_errors_total",
			Help: "Outbox events that failed to publish",
		}),
		OutboxBacklog: f.NewGauge(prometheus.GaugeOpts{
			Name: "hostledger_outbox_backlog",
			Help: "Outbox events waiting to be published",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hostledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"route"},
		),
	}
}
