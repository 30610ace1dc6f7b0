package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Counter: translation requests by outcome ("success" | "failure").
	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Total number of translation requests by outcome.",
		},
		[]string{"outcome"},
	)

	// Counter: translation cache lookups by result.
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_lookups_total",
			Help: "Total translation cache lookups by result (hit | miss | error).",
		},
		[]string{"result"},
	)

	// Histogram: end-to-end translate-and-evaluate latency in seconds.
	TranslationLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "translation_latency_seconds",
			Help:    "End-to-end translate-and-evaluate latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Histogram: HTTP latency for the gateway in seconds.
	HTTPLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "querybridge_http_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 30},
		},
		[]string{"path", "method", "status_code"},
	)

	// Gauge: overall quality score of the most recent evaluation.
	LastQualityScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "translation_last_quality_score",
			Help: "Overall quality score (0-10) of the most recent evaluation.",
		},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		TranslationsTotal,
		CacheLookupsTotal,
		TranslationLatencySeconds,
		HTTPLatencySeconds,
		LastQualityScore,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures HTTP latency for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Seconds()

		HTTPLatencySeconds.
			WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(duration)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
