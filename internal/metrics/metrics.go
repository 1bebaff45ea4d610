// Package metrics exposes Prometheus instrumentation for the request
// pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitewire",
			Name:      "requests_total",
			Help:      "Total requests dispatched, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sitewire",
			Name:      "request_duration_seconds",
			Help:      "Duration of dispatched requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitewire",
			Name:      "cache_hits_total",
			Help:      "Prefetch cache hits",
		},
	)

	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitewire",
			Name:      "cache_misses_total",
			Help:      "Prefetch cache misses",
		},
	)

	notificationsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitewire",
			Name:      "notifications_total",
			Help:      "Notifications emitted, by severity",
		},
		[]string{"severity"},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestTotal, requestDuration, cacheHits, cacheMisses, notificationsEmitted)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one completed request.
func ObserveRequest(method, outcome string, d time.Duration) {
	requestTotal.WithLabelValues(method, outcome).Inc()
	requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// IncCacheHit counts a prefetch served from cache.
func IncCacheHit() { cacheHits.Inc() }

// IncCacheMiss counts a prefetch that had to hit the network.
func IncCacheMiss() { cacheMisses.Inc() }

// IncNotification counts an emitted notification.
func IncNotification(severity string) {
	notificationsEmitted.WithLabelValues(severity).Inc()
}
