// Package metrics provides Prometheus metrics for the curator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsTotal counts report builds by kind and outcome.
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Name:      "reports_total",
			Help:      "Total number of analysis requests",
		},
		[]string{"kind", "outcome"},
	)

	// ReportDuration measures how long an analysis takes including the store read.
	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator",
			Name:      "report_duration_seconds",
			Help:      "Duration of analysis requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// RecordsFetched observes how many records each store read returned.
	RecordsFetched = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator",
			Name:      "records_fetched",
			Help:      "Distribution of records returned per store read",
			Buckets:   []float64{0, 10, 100, 1000, 10000, 100000},
		},
		[]string{"source"},
	)

	// ClassificationsTotal counts sentiment classifications by outcome.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Name:      "classifications_total",
			Help:      "Total number of sentiment classifications",
		},
		[]string{"outcome"},
	)
)

// RecordReport records one analysis request.
func RecordReport(kind, outcome string, duration float64) {
	ReportsTotal.WithLabelValues(kind, outcome).Inc()
	ReportDuration.WithLabelValues(kind).Observe(duration)
}

// RecordFetch records the size of a store read.
func RecordFetch(source string, count int) {
	RecordsFetched.WithLabelValues(source).Observe(float64(count))
}

// RecordClassification records a classification outcome.
func RecordClassification(outcome string) {
	ClassificationsTotal.WithLabelValues(outcome).Inc()
}
