package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	ReportsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errtrack_reports_ingested_total",
			Help: "Total number of error reports ingested by category and outcome",
		},
		[]string{"category", "outcome"}, // created, duplicate, failed
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "errtrack_batch_size",
			Help:    "Number of reports per batch request",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 40, 50},
		},
	)

	FingerprintFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "errtrack_fingerprint_fallback_total",
			Help: "Total number of reports that received a fallback fingerprint",
		},
	)

	// Remediation metrics
	RemediationDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errtrack_remediation_decisions_total",
			Help: "Total number of remediation gate decisions by reason",
		},
		[]string{"reason"},
	)

	RemediationDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errtrack_remediation_dispatch_total",
			Help: "Total number of remediation dispatch events by result",
		},
		[]string{"result"}, // dispatched, succeeded, rolled_back, skipped
	)

	RemediationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "errtrack_remediation_queue_depth",
			Help: "Number of remediation jobs waiting for a worker",
		},
	)
)

// RecordIngest records the outcome of a single report
func RecordIngest(category, outcome string) {
	ReportsIngestedTotal.WithLabelValues(category, outcome).Inc()
}

// RecordBatch records the size of a batch request
func RecordBatch(size int) {
	BatchSize.Observe(float64(size))
}

// RecordFingerprintFallback records a hashing failure
func RecordFingerprintFallback() {
	FingerprintFallbackTotal.Inc()
}

// RecordRemediationDecision records a gate decision
func RecordRemediationDecision(reason string) {
	RemediationDecisionsTotal.WithLabelValues(reason).Inc()
}

// RecordRemediationDispatch records a dispatch lifecycle event
func RecordRemediationDispatch(result string) {
	RemediationDispatchTotal.WithLabelValues(result).Inc()
}
