// Package metrics exposes Prometheus collectors for the catalog tool.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapesTotal           *prometheus.CounterVec
	relayAttemptsTotal     *prometheus.CounterVec
	relayDurationSeconds   *prometheus.HistogramVec
	syncWritesTotal        *prometheus.CounterVec
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDurationSec *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipedex_scrapes_total",
				Help: "Total number of scrapes, labeled by extraction stage and success.",
			},
			[]string{"stage", "success"},
		)

		relayAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipedex_relay_attempts_total",
				Help: "Total number of relay fetch attempts, labeled by relay and outcome.",
			},
			[]string{"relay", "outcome"},
		)

		relayDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipedex_relay_duration_seconds",
				Help:    "Histogram of relay fetch latencies, labeled by relay.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"relay"},
		)

		syncWritesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipedex_sync_writes_total",
				Help: "Total number of remote document writes, labeled by status.",
			},
			[]string{"status"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipedex_http_requests_total",
				Help: "Total number of HTTP requests served, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSec = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipedex_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrape records a completed scrape and the stage that produced it.
func ObserveScrape(stage string, success bool) {
	if scrapesTotal == nil {
		return
	}
	scrapesTotal.WithLabelValues(stage, strconv.FormatBool(success)).Inc()
}

// ObserveRelayAttempt records one relay fetch attempt.
func ObserveRelayAttempt(relay, outcome string, duration time.Duration) {
	if relayAttemptsTotal == nil {
		return
	}
	relayAttemptsTotal.WithLabelValues(relay, outcome).Inc()
	relayDurationSeconds.WithLabelValues(relay).Observe(duration.Seconds())
}

// ObserveSyncWrite records the outcome of a remote document write.
func ObserveSyncWrite(status string) {
	if syncWritesTotal == nil {
		return
	}
	syncWritesTotal.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest records a served HTTP request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSec.WithLabelValues(method, route).Observe(duration.Seconds())
}
