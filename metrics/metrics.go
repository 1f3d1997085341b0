// Package metrics exposes Prometheus metrics for identification operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Identifications counts completed identification attempts by outcome.
	// match_type is one of hash+filename, hash, filename, filename_unique,
	// filename_best, or "none" when no match was found.
	Identifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamemeta_identifications_total",
		Help: "Total number of identification attempts by match type.",
	}, []string{"match_type"})

	// ProviderRequests counts provider calls by provider and status.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamemeta_provider_requests_total",
		Help: "Total number of provider requests.",
	}, []string{"provider", "operation", "status"}) // status: ok, miss, error

	// ProviderDuration records per-provider request latency.
	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamemeta_provider_request_duration_seconds",
		Help:    "Duration of provider requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	// CacheHits counts cache lookups by outcome.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamemeta_cache_lookups_total",
		Help: "Total number of cache lookups.",
	}, []string{"result"}) // result: hit, miss
)

// RecordProviderRequest records the outcome and latency of a provider call.
func RecordProviderRequest(provider, operation, status string, start time.Time) {
	ProviderRequests.WithLabelValues(provider, operation, status).Inc()
	ProviderDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}

// RecordIdentification records a completed identification attempt. An empty
// matchType is recorded as "none".
func RecordIdentification(matchType string) {
	if matchType == "" {
		matchType = "none"
	}
	Identifications.WithLabelValues(matchType).Inc()
}
