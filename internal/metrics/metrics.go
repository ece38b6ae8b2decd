// Package metrics exposes Prometheus instrumentation for the accounting
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsRecorded counts ledger appends by side (buy/sell).
	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_transactions_recorded_total",
		Help: "Number of transactions appended to the ledger.",
	}, []string{"side"})

	// Recalculations counts per-symbol holding rebuilds by result (ok/failed).
	Recalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_recalculations_total",
		Help: "Number of per-symbol holding recalculations.",
	}, []string{"result"})

	// HTTPRequestDuration tracks API latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
