package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "filmorate_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LikeMutations counts like additions and removals that changed state.
	LikeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_like_mutations_total",
		Help: "Total number of like mutations by kind",
	}, []string{"kind"})

	// FriendshipTransitions counts friendship edge transitions.
	FriendshipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_friendship_transitions_total",
		Help: "Total number of friendship edge transitions",
	}, []string{"transition"})

	// EngineOperationDuration records the duration of ranking engine operations.
	EngineOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "filmorate_engine_operation_duration_seconds",
		Help:    "Duration of similarity, recommendation and popularity computations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// RateLimitRejections counts requests refused by the Redis rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter by resource",
	}, []string{"resource"})

	// PopularCacheResults counts popular-list cache hits and misses.
	PopularCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_popular_cache_results_total",
		Help: "Popular list cache lookups by result",
	}, []string{"result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackOperation returns a function that records an engine operation's duration.
func TrackOperation(operation string) func() {
	start := time.Now()
	return func() {
		EngineOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
