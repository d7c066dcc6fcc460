package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	StreamEntriesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_entries_consumed_total",
			Help: "Number of entries read from the stream",
		},
		[]string{"stream"},
	)
	StreamEntriesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_entries_processed_total",
			Help: "Number of entries handled successfully",
		},
		[]string{"stream"},
	)
	StreamEntriesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_entries_failed_total",
			Help: "Number of entries whose handler returned an error",
		},
		[]string{"stream"},
	)
	StreamEntriesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_entries_published_total",
			Help: "Number of entries appended to the stream",
		},
		[]string{"stream"},
	)
	StreamReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_reconnects_total",
			Help: "Number of reconnects forced by connectivity failures",
		},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			StreamEntriesConsumed,
			StreamEntriesProcessed,
			StreamEntriesFailed,
			StreamEntriesPublished,
			StreamReconnects,
			CacheOps,
			CacheSize,
		)
	})
}
