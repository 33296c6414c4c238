// Package metrics метрики prometheus брокера активаций.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsbroker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smsbroker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsbroker_provider_requests_total",
			Help: "Total number of provider API attempts",
		},
		[]string{"action", "result"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsbroker_purchases_total",
			Help: "Total number of purchase attempts",
		},
		[]string{"result"},
	)

	ActivationsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smsbroker_activations_resolved_total",
			Help: "Total number of activations moved to a terminal status",
		},
		[]string{"status"},
	)

	RefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smsbroker_refunds_total",
			Help: "Total number of refunds credited",
		},
	)

	RefundedAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smsbroker_refunded_amount_total",
			Help: "Total refunded amount",
		},
	)

	ActiveMonitors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smsbroker_active_monitors",
			Help: "Number of running activation monitors",
		},
	)

	IntentsReconciledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smsbroker_intents_reconciled_total",
			Help: "Total number of stale purchase intents credited back",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordProviderRequest(action string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	ProviderRequestsTotal.WithLabelValues(action, result).Inc()
}

func RecordPurchase(result string) {
	PurchasesTotal.WithLabelValues(result).Inc()
}

func RecordResolved(status string) {
	ActivationsResolvedTotal.WithLabelValues(status).Inc()
}

func RecordRefund(amount decimal.Decimal) {
	RefundsTotal.Inc()
	RefundedAmountTotal.Add(amount.InexactFloat64())
}

func RecordIntentReconciled() {
	IntentsReconciledTotal.Inc()
}
