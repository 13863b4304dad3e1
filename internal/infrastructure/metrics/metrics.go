// Package metrics provides Prometheus metrics for the matching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TierOutcomesTotal tracks how each matching tier ended, by tier and status
	TierOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopmatch",
			Subsystem: "match",
			Name:      "tier_outcomes_total",
			Help:      "Total number of matching tier runs by tier and outcome",
		},
		[]string{"tier", "status"},
	)

	// MatchDuration tracks end-to-end FindMatches latency including cache hits
	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shopmatch",
			Subsystem: "match",
			Name:      "duration_seconds",
			Help:      "Duration of match lookups in seconds",
			Buckets:   []float64{0.005, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// CacheLookupsTotal tracks result cache lookups by result (hit, miss, error, bypass)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopmatch",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of result cache lookups by result",
		},
		[]string{"result"},
	)

	// ProviderRequestsTotal tracks outbound marketplace API requests
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopmatch",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of outbound marketplace API requests",
		},
		[]string{"platform", "operation", "status"},
	)
)
