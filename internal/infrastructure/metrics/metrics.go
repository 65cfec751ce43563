// Package metrics 提供 Prometheus 指標
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipe_assistant"

var (
	providerAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "attempts_total",
			Help:      "AI provider attempts by operation and outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "duration_seconds",
			Help:      "AI provider call latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	imageResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "image",
			Name:      "results_total",
			Help:      "Dish image results by source",
		},
		[]string{"source"},
	)

	cookNowEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cook_now",
			Name:      "evaluations_total",
			Help:      "Cook-now evaluations by terminal branch",
		},
		[]string{"branch"},
	)

	backfillItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "items_total",
			Help:      "Backfill items by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveProvider 記錄一次供應商調用
func ObserveProvider(provider, operation string, ok bool, duration time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "unavailable"
	}
	providerAttempts.WithLabelValues(provider, operation, outcome).Inc()
	providerDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// ObserveImageSource 記錄圖片結果來源
func ObserveImageSource(source string) {
	imageResults.WithLabelValues(source).Inc()
}

// ObserveCookNow 記錄 cook-now 評估分支
func ObserveCookNow(branch string) {
	cookNowEvaluations.WithLabelValues(branch).Inc()
}

// ObserveBackfill 記錄回填結果
func ObserveBackfill(kind string, updated, failed int) {
	backfillItems.WithLabelValues(kind, "updated").Add(float64(updated))
	backfillItems.WithLabelValues(kind, "failed").Add(float64(failed))
}

// ObserveHTTP 記錄 HTTP 請求
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
