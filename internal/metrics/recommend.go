package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfsage",
			Name:      "recommendations_total",
			Help:      "Total number of recommendation requests by detected intent",
		},
		[]string{"intent", "status"},
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shelfsage",
			Name:      "recommendation_duration_seconds",
			Help:      "End-to-end recommendation latency in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"intent"},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfsage",
			Name:      "response_cache_total",
			Help:      "Recommendation response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SearchPathFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfsage",
			Name:      "search_path_failures_total",
			Help:      "Search path failures absorbed during hybrid retrieval",
		},
		[]string{"path"}, // "exact" / "fuzzy" / "semantic"
	)
)

var recMetricsRegistered bool

// RegisterRecommendationMetrics registers Prometheus recommendation metrics. Must be called once from main.
func RegisterRecommendationMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(ResponseCacheTotal)
	prometheus.MustRegister(SearchPathFailuresTotal)
	recMetricsRegistered = true
}
