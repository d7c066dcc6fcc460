package metrics_test

import (
	"testing"

	"github.com/alexandr-bsu/memos-frorked/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Должно выполняться без паники даже при повторном вызове.
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestStreamCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforeConsumed := testutil.ToFloat64(metrics.StreamEntriesConsumed.WithLabelValues("queries"))
	beforeProcessed := testutil.ToFloat64(metrics.StreamEntriesProcessed.WithLabelValues("queries"))
	beforeFailed := testutil.ToFloat64(metrics.StreamEntriesFailed.WithLabelValues("queries"))
	beforePublished := testutil.ToFloat64(metrics.StreamEntriesPublished.WithLabelValues("queries"))

	metrics.StreamEntriesConsumed.WithLabelValues("queries").Inc()
	metrics.StreamEntriesProcessed.WithLabelValues("queries").Inc()
	metrics.StreamEntriesFailed.WithLabelValues("queries").Inc()
	metrics.StreamEntriesPublished.WithLabelValues("queries").Inc()

	if got := testutil.ToFloat64(metrics.StreamEntriesConsumed.WithLabelValues("queries")); got != beforeConsumed+1 {
		t.Fatalf("StreamEntriesConsumed: got=%v want=%v", got, beforeConsumed+1)
	}
	if got := testutil.ToFloat64(metrics.StreamEntriesProcessed.WithLabelValues("queries")); got != beforeProcessed+1 {
		t.Fatalf("StreamEntriesProcessed: got=%v want=%v", got, beforeProcessed+1)
	}
	if got := testutil.ToFloat64(metrics.StreamEntriesFailed.WithLabelValues("queries")); got != beforeFailed+1 {
		t.Fatalf("StreamEntriesFailed: got=%v want=%v", got, beforeFailed+1)
	}
	if got := testutil.ToFloat64(metrics.StreamEntriesPublished.WithLabelValues("queries")); got != beforePublished+1 {
		t.Fatalf("StreamEntriesPublished: got=%v want=%v", got, beforePublished+1)
	}
}

func TestCacheOps_CountersByLabel(t *testing.T) {
	metrics.MustRegister()

	hitBefore := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("hit"))
	missBefore := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("miss"))

	metrics.CacheOps.WithLabelValues("hit").Inc()
	metrics.CacheOps.WithLabelValues("miss").Inc()

	if got := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("hit")); got != hitBefore+1 {
		t.Fatalf("CacheOps{hit}: got=%v want=%v", got, hitBefore+1)
	}
	if got := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("miss")); got != missBefore+1 {
		t.Fatalf("CacheOps{miss}: got=%v want=%v", got, missBefore+1)
	}
}
