package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	exportsTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the evaluation
// pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btec_evaluations_total",
			Help: "Total number of evaluation attempts by outcome.",
		}, []string{"outcome"})

		evaluationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "btec_evaluation_duration_seconds",
			Help:    "Latency distribution of evaluation attempts.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		}, []string{"provider"})

		exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btec_report_exports_total",
			Help: "Total number of PDF report exports by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(evaluationsTotal, evaluationDuration, exportsTotal)
	})
}

// Evaluations exposes the evaluation outcome counter.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// EvaluationDuration exposes the evaluation latency histogram.
func EvaluationDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return evaluationDuration
}

// Exports exposes the PDF export counter.
func Exports() *prometheus.CounterVec {
	RegisterMetrics()
	return exportsTotal
}
