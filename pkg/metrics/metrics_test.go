package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordGraph(t *testing.T) {
	r := NewRegistry()
	r.RecordGraph(12, 30, 77)

	if got := testutil.ToFloat64(r.GraphNodesTotal); got != 12 {
		t.Errorf("nodes gauge: expected 12, got %v", got)
	}
	if got := testutil.ToFloat64(r.GraphEdgesTotal); got != 30 {
		t.Errorf("edges gauge: expected 30, got %v", got)
	}
	if got := testutil.ToFloat64(r.GraphTotalWeight); got != 77 {
		t.Errorf("weight gauge: expected 77, got %v", got)
	}
}

func TestRecordRenderCountsByStatus(t *testing.T) {
	r := NewRegistry()
	r.RecordRender("success", 5, "force", 10*time.Millisecond)
	r.RecordRender("success", 8, "force", 10*time.Millisecond)
	r.RecordRender("error", 0, "force", time.Millisecond)

	if got := testutil.ToFloat64(r.RegionRenders.WithLabelValues("success")); got != 2 {
		t.Errorf("success renders: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(r.RegionRenders.WithLabelValues("error")); got != 1 {
		t.Errorf("error renders: expected 1, got %v", got)
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("success")
	r.RecordRun("success")
	r.RecordRun("failed")

	if got := testutil.ToFloat64(r.PipelineRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs: expected 2, got %v", got)
	}
}

func TestDefaultRegistrySingleton(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry must return the same instance")
	}
}
