package metrics

import "github.com/prometheus/client_golang/prometheus"

// Generation and search Prometheus metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadscout",
			Name:      "generation_requests_total",
			Help:      "Total number of generator requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadscout",
			Name:      "generation_request_duration_seconds",
			Help:      "Generator request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadscout",
			Name:      "generation_tokens_total",
			Help:      "Total generator tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	GenerationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadscout",
			Name:      "generation_errors_total",
			Help:      "Total generator errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	SearchBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadscout",
			Name:      "search_batches_total",
			Help:      "Search batches by variation kind and outcome",
		},
		[]string{"kind", "outcome"}, // outcome: ok / empty / parse_error / error
	)

	SearchProfilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadscout",
			Name:      "search_profiles_total",
			Help:      "Profiles seen per pipeline stage",
		},
		[]string{"stage"}, // raw / dropped / unique
	)
)

var genMetricsRegistered bool

// RegisterGenerationMetrics registers generation and search metrics. Must be called once from main.
func RegisterGenerationMetrics() {
	if genMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(GenerationErrorsTotal)
	prometheus.MustRegister(SearchBatchesTotal)
	prometheus.MustRegister(SearchProfilesTotal)
	genMetricsRegistered = true
}

// RecordGeneration records the outcome of one generator call.
func RecordGeneration(provider, model string, seconds float64, promptTokens, totalTokens int, errType string) {
	if errType != "" {
		GenerationRequestsTotal.WithLabelValues(provider, model, "error").Inc()
		GenerationErrorsTotal.WithLabelValues(provider, model, errType).Inc()
		return
	}
	GenerationRequestsTotal.WithLabelValues(provider, model, "success").Inc()
	GenerationRequestDuration.WithLabelValues(provider, model).Observe(seconds)
	if totalTokens > 0 {
		GenerationTokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
		GenerationTokensTotal.WithLabelValues(provider, model, "total").Add(float64(totalTokens))
	}
}
