package datadog

import (
	"sort"
	"testing"

	"cleanse/internal/metrics"
)

var _ metrics.Backend = (*Backend)(nil)

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

func TestNewBackend_WithNamespaceAndTags(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:8125",
		Namespace:  "cleanse",
		GlobalTags: []string{"job:clean_movies"},
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer b.Flush()

	// Emitting must not panic even with no agent listening (UDP).
	b.IncCounter("clean_rows_total", 3, metrics.Labels{"kind": "loaded"})
	b.ObserveDuration("clean_stage_duration_seconds", 0.01, metrics.Labels{"stage": "dedup"})
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}

	got := labelsToTags(metrics.Labels{"stage": "dedup", "status": "success"})
	sort.Strings(got)
	want := []string{"stage:dedup", "status:success"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("labelsToTags = %v, want %v", got, want)
	}
}
