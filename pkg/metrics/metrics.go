// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gynergy"

var (
	// Registry holds the application-specific collectors.
	Registry = prometheus.NewRegistry()

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	sectionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "sections_completed_total",
			Help:      "Journal sections completed for the first time on a given day.",
		},
		[]string{"section"},
	)

	ocrCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ocr",
			Name:      "calls_total",
			Help:      "Text recognition calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	ocrDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ocr",
			Name:      "call_duration_seconds",
			Help:      "Duration of text recognition calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
		},
		[]string{"provider"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejections_total",
			Help:      "Requests rejected by a rate limit.",
		},
		[]string{"scope"},
	)

	streakResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "streaks",
			Name:      "resets_total",
			Help:      "Streaks reset to zero by the decay job.",
		},
	)
)

func init() {
	Registry.MustRegister(
		HTTPInFlight,
		HTTPRequests,
		HTTPDuration,
		sectionsCompleted,
		ocrCalls,
		ocrDuration,
		rateLimited,
		streakResets,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordSectionCompleted(section string) {
	sectionsCompleted.WithLabelValues(section).Inc()
}

func RecordOCRCall(provider string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ocrCalls.WithLabelValues(provider, outcome).Inc()
	ocrDuration.WithLabelValues(provider).Observe(seconds)
}

func RecordRateLimited(scope string) {
	rateLimited.WithLabelValues(scope).Inc()
}

func RecordStreakResets(n int64) {
	if n > 0 {
		streakResets.Add(float64(n))
	}
}
