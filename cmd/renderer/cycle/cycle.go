// Package cycle runs one heatmap refresh: fetch → flatten → render → status.
//
// A Cycle is stateless between runs. Every Run owns its status.Reporter and
// output buffer, so concurrent page loads share nothing but the adapter and
// the metrics.
package cycle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HatiCode/commutemap/cmd/renderer/metrics"
	"github.com/HatiCode/commutemap/pkg/adapters"
	"github.com/HatiCode/commutemap/pkg/commute"
	"github.com/HatiCode/commutemap/pkg/heatmap"
	"github.com/HatiCode/commutemap/pkg/status"
)

// Result is the outcome of one Run.
type Result struct {
	ID     string
	Status status.Snapshot
	// Samples is empty, never nil, when the run failed.
	Samples []commute.Sample
	// Chart holds the rendered bytes; nil when no renderer was given or the
	// run failed.
	Chart       []byte
	ContentType string
	Err         error
}

// Failed reports whether the run ended in the failure status.
func (r Result) Failed() bool { return r.Status.State == status.Failed }

// Cycle orchestrates a refresh.
type Cycle struct {
	adapter adapters.Adapter
	loc     *time.Location
	metrics *metrics.Metrics
	logger  *slog.Logger

	// now is the status clock; tests replace it.
	now func() time.Time
}

// New creates a Cycle. metrics may be nil; a nil logger means slog.Default().
func New(adapter adapters.Adapter, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *Cycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cycle{
		adapter: adapter,
		loc:     loc,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Run performs one refresh. With a nil renderer only the samples and status
// are produced. Errors never escape: they are logged, counted and reported
// as the failure status, and the renderer is not invoked.
func (c *Cycle) Run(ctx context.Context, r heatmap.Renderer) Result {
	start := time.Now()
	res := Result{ID: uuid.NewString(), Samples: []commute.Sample{}}
	rep := status.NewReporterWithClock(c.loc, c.now)
	_ = rep.Begin()

	records, fetchDuration, err := c.fetch(ctx)
	if err != nil {
		return c.fail(res, rep, "fetch", fetchReason(err), err)
	}

	samples := commute.Flatten(records)

	var renderDuration time.Duration
	if r != nil {
		chart, d, err := c.render(r, samples)
		if err != nil {
			return c.fail(res, rep, "render", formatOf(r), err)
		}
		res.Chart, res.ContentType, renderDuration = chart, r.ContentType(), d
	}

	_ = rep.Succeed()
	res.Samples = samples
	res.Status = rep.Snapshot()
	if c.metrics != nil {
		c.metrics.RecordSuccess(len(samples), rep.RenderedAt())
	}

	c.logger.Info("cycle complete",
		"cycle_id", res.ID,
		"source", c.adapter.Name(),
		"samples", len(samples),
		"fetch_ms", fetchDuration.Milliseconds(),
		"render_ms", renderDuration.Milliseconds(),
		"total_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func (c *Cycle) fetch(ctx context.Context) ([]commute.Record, time.Duration, error) {
	start := time.Now()

	records, err := c.adapter.Collect(ctx)
	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveFetch(c.adapter.Name(), duration)
	}
	if err != nil {
		return nil, duration, err
	}

	c.logger.Debug("fetched commute records",
		"source", c.adapter.Name(),
		"records", len(records),
		"duration_ms", duration.Milliseconds(),
	)
	return records, duration, nil
}

func (c *Cycle) render(r heatmap.Renderer, samples []commute.Sample) ([]byte, time.Duration, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := r.Render(&buf, samples); err != nil {
		return nil, 0, err
	}

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveRender(formatOf(r), duration)
	}
	c.logger.Debug("rendered chart",
		"format", formatOf(r),
		"bytes", buf.Len(),
		"duration_ms", duration.Milliseconds(),
	)
	return buf.Bytes(), duration, nil
}

func (c *Cycle) fail(res Result, rep *status.Reporter, component, reason string, err error) Result {
	_ = rep.Fail()
	res.Status = rep.Snapshot()
	res.Err = err
	if c.metrics != nil {
		c.metrics.RecordFailure(component, reason)
	}
	c.logger.Error("failed to fetch or render chart",
		"cycle_id", res.ID,
		"source", c.adapter.Name(),
		"component", component,
		"error", err,
	)
	return res
}

func fetchReason(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, adapters.ErrAcquire):
		return "acquire"
	default:
		return "unknown"
	}
}

// formatOf derives a short label ("svg", "png") from the renderer's media type.
func formatOf(r heatmap.Renderer) string {
	ct := r.ContentType()
	ct, _, _ = strings.Cut(ct, ";")
	_, sub, ok := strings.Cut(ct, "/")
	if !ok {
		return "unknown"
	}
	sub, _, _ = strings.Cut(sub, "+")
	return strings.TrimSpace(sub)
}
