// Package metrics exposes Prometheus collectors for query volume,
// context-cache effectiveness, and lookup latency, following the
// promauto registration pattern used for RPC and index metrics
// elsewhere in this codebase.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var QueriesByKind = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ngramstore_queries_by_kind",
		Help: "Ngram queries by kind (ngram_count, continuations_count, unique_continuations_count)",
	},
	[]string{"kind"},
)

var ContextCacheResult = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ngramstore_context_cache_result",
		Help: "Context resolution cache hits and misses",
	},
	[]string{"result"},
)

var QueryLatencyHistogram = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ngramstore_query_latency_seconds",
		Help:    "Query latency by kind",
		Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
	},
	[]string{"kind"},
)

var BuildLatencyHistogram = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "ngramstore_build_latency_seconds",
		Help:    "Time to build an NGramStorage from training pairs",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	},
)

var LevelRecordCount = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "ngramstore_level_record_count",
		Help: "Number of records in each n-gram length level",
	},
	[]string{"level"},
)
