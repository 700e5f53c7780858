package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entryMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitbill_entry_mutations_total",
			Help: "Total number of entry mutations by operation",
		},
		[]string{"op"},
	)

	splitsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitbill_splits_computed_total",
			Help: "Total number of split calculations by mode",
		},
		[]string{"mode"},
	)

	settlementsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitbill_settlements_computed_total",
			Help: "Total number of settlement computations by algorithm",
		},
		[]string{"algorithm"},
	)

	snapshotRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "splitbill_snapshot_recompute_duration_seconds",
			Help:    "Duration of full balance snapshot recomputations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	balanceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbill_balance_cache_hits_total",
		Help: "Total number of balance view cache hits",
	})

	balanceCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbill_balance_cache_misses_total",
		Help: "Total number of balance view cache misses",
	})
)

// IncEntryMutation counts one entry create, update or delete.
func IncEntryMutation(op string) {
	entryMutations.WithLabelValues(op).Inc()
}

// IncSplitComputed counts one split calculation.
func IncSplitComputed(mode string) {
	splitsComputed.WithLabelValues(mode).Inc()
}

// IncSettlementComputed counts one settlement computation.
func IncSettlementComputed(algorithm string) {
	settlementsComputed.WithLabelValues(algorithm).Inc()
}

// ObserveSnapshotRecompute records the duration of one snapshot recomputation.
func ObserveSnapshotRecompute(d time.Duration) {
	snapshotRecomputeDuration.Observe(d.Seconds())
}

// IncBalanceCacheHit counts one balance view served from cache.
func IncBalanceCacheHit() {
	balanceCacheHits.Inc()
}

// IncBalanceCacheMiss counts one balance view computed from snapshots.
func IncBalanceCacheMiss() {
	balanceCacheMisses.Inc()
}
