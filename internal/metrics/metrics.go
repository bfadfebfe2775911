// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spark_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spark_swipes_total",
			Help: "Swipes recorded by direction",
		},
		[]string{"direction"},
	)

	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spark_matches_total",
			Help: "Matches established by source",
		},
		[]string{"source"},
	)

	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spark_messages_total",
			Help: "Chat messages posted",
		},
	)

	ChatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spark_chats_created_total",
			Help: "Chats created",
		},
	)

	PairLockFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spark_pair_lock_failures_total",
			Help: "Pair lock acquisitions that failed or timed out",
		},
	)
)
