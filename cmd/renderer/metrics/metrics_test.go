package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFetch("http", 120*time.Millisecond)
	m.ObserveRender("svg", 2*time.Millisecond)
	m.RecordSuccess(3, time.Unix(1700000000, 0))
	m.RecordFailure("fetch", "acquire")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"commutemap_fetch_seconds",
		"commutemap_render_seconds",
		"commutemap_samples_rendered",
		"commutemap_last_success_timestamp_seconds",
		"commutemap_cycles_total",
		"commutemap_errors_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(reg)
}

func TestRecordSuccess(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordSuccess(3, time.Unix(1700000000, 0))
	m.RecordSuccess(0, time.Unix(1700000060, 0))

	if got := testutil.ToFloat64(m.SamplesRendered); got != 0 {
		t.Errorf("samples_rendered = %v, want 0 after an empty chart", got)
	}
	if got := testutil.ToFloat64(m.LastSuccess); got != 1700000060 {
		t.Errorf("last_success = %v", got)
	}
	if got := testutil.ToFloat64(m.Cycles.WithLabelValues("rendered")); got != 2 {
		t.Errorf("cycles{rendered} = %v, want 2", got)
	}
}

func TestRecordFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFailure("fetch", "acquire")
	m.RecordFailure("render", "svg")
	m.RecordError("grpc", "encode")

	if got := testutil.ToFloat64(m.Cycles.WithLabelValues("failed")); got != 2 {
		t.Errorf("cycles{failed} = %v, want 2", got)
	}

	want := `
# HELP commutemap_errors_total Total number of errors by component and reason
# TYPE commutemap_errors_total counter
commutemap_errors_total{component="fetch",reason="acquire"} 1
commutemap_errors_total{component="grpc",reason="encode"} 1
commutemap_errors_total{component="render",reason="svg"} 1
`
	if err := testutil.CollectAndCompare(m.Errors, strings.NewReader(want)); err != nil {
		t.Error(err)
	}
}

func TestObserveDurations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch("http", 250*time.Millisecond)
	m.ObserveFetch("prometheus", time.Second)
	m.ObserveRender("png", 5*time.Millisecond)

	if n := testutil.CollectAndCount(m.FetchDuration); n != 2 {
		t.Errorf("fetch series = %d, want 2", n)
	}
	if n := testutil.CollectAndCount(m.RenderDuration); n != 1 {
		t.Errorf("render series = %d, want 1", n)
	}
}
