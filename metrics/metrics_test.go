package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.NodesTotal == nil || r.HookErrorsTotal == nil || r.TicksTotal == nil || r.PublishErrorsTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordPublish(t *testing.T) {
	r := NewRegistry()
	r.RecordPublish(62541, true, nil)
	r.RecordPublish(62541, false, nil)
	r.RecordPublish(62541, false, errors.New("unreachable"))

	if v := counterValue(t, r.MessagesPublished.WithLabelValues("62541")); v != 2 {
		t.Errorf("MessagesPublished = %v, want 2", v)
	}
	if v := counterValue(t, r.KeyFramesPublished.WithLabelValues("62541")); v != 1 {
		t.Errorf("KeyFramesPublished = %v, want 1", v)
	}
	if v := counterValue(t, r.PublishErrorsTotal.WithLabelValues("62541")); v != 1 {
		t.Errorf("PublishErrorsTotal = %v, want 1", v)
	}
}

func TestRecordHookError(t *testing.T) {
	r := NewRegistry()
	r.RecordHookError("write")
	r.RecordHookError("write")
	r.RecordHookError("read")

	if v := counterValue(t, r.HookErrorsTotal.WithLabelValues("write")); v != 2 {
		t.Errorf("HookErrorsTotal{write} = %v, want 2", v)
	}
	if v := counterValue(t, r.HookErrorsTotal.WithLabelValues("read")); v != 1 {
		t.Errorf("HookErrorsTotal{read} = %v, want 1", v)
	}
}

func TestRecordTick(t *testing.T) {
	r := NewRegistry()
	r.RecordTick(100, 2*time.Millisecond)
	r.RecordSkippedTick(100)

	if v := counterValue(t, r.TicksTotal.WithLabelValues("100")); v != 1 {
		t.Errorf("TicksTotal = %v, want 1", v)
	}
	if v := counterValue(t, r.TicksSkippedTotal.WithLabelValues("100")); v != 1 {
		t.Errorf("TicksSkippedTotal = %v, want 1", v)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.SetNodeCount(42)
	r.RecordNodeOperation("add_instance", nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "uapubsub_store_nodes_total 42") {
		t.Errorf("expected node gauge in exposition, got:\n%s", body)
	}
	if !strings.Contains(body, `uapubsub_store_operations_total{operation="add_instance",status="success"} 1`) {
		t.Errorf("expected operation counter in exposition, got:\n%s", body)
	}
}
