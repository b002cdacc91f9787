// Package router configures HTTP routes for the renderer.
//
// Routes configured:
//   - GET /             - HTML dashboard with the inline SVG chart and status
//   - GET /heatmap.svg  - Chart as SVG (502 with a JSON error on failure)
//   - GET /heatmap.png  - Chart as PNG (502 with a JSON error on failure)
//   - GET /api/samples  - Samples and status as JSON, CORS-enabled
//   - GET /healthz      - Health check endpoint (200 OK, 503 while draining)
//   - GET /metrics      - Prometheus metrics endpoint
//
// Every chart or sample request runs its own refresh cycle. The chart
// endpoints accept width and height query parameters, clamped to
// [MinWidth, MaxWidth] and [MinHeight, MaxHeight].
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/HatiCode/commutemap/cmd/renderer/cycle"
	"github.com/HatiCode/commutemap/pkg/commute"
	"github.com/HatiCode/commutemap/pkg/heatmap"
	"github.com/HatiCode/commutemap/pkg/httpx"
	"github.com/HatiCode/commutemap/pkg/status"
)

const (
	MinWidth  = 240
	MaxWidth  = 4096
	MinHeight = 160
	MaxHeight = 4096
)

// Runner runs one refresh cycle.
type Runner interface {
	Run(ctx context.Context, r heatmap.Renderer) cycle.Result
}

// Options configures SetupRoutes.
type Options struct {
	// Chart is the base chart configuration; requests may only resize it.
	Chart heatmap.Config
	// CORSOrigins are the origins allowed on /api/*.
	CORSOrigins []string
	// Gatherer backs /metrics; nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Health backs /healthz; a non-nil error answers 503. nil means always OK.
	Health func() error
	Logger *slog.Logger
}

// SamplesResponse is the body of GET /api/samples.
type SamplesResponse struct {
	State   status.State     `json:"state"`
	Status  string           `json:"status"`
	Samples []commute.Sample `json:"samples"`
}

// SetupRoutes configures HTTP endpoints for the renderer.
func SetupRoutes(runner Runner, opts Options) *http.ServeMux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handlePage(runner, opts.Chart, logger))

	mux.HandleFunc("GET /heatmap.svg", handleChart(runner, opts.Chart, func(cfg heatmap.Config) heatmap.Renderer {
		return heatmap.NewSVGRenderer(cfg)
	}))
	mux.HandleFunc("GET /heatmap.png", handleChart(runner, opts.Chart, func(cfg heatmap.Config) heatmap.Renderer {
		return heatmap.NewPNGRenderer(cfg)
	}))

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	mux.Handle("/api/samples", c.Handler(handleSamples(runner, logger)))

	// Health check endpoint
	mux.Handle("/healthz", httpx.HealthHandlerWithCheck(opts.Health))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

func handleChart(runner Runner, base heatmap.Config, newRenderer func(heatmap.Config) heatmap.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := chartSize(r, base)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err)
			return
		}

		res := runner.Run(r.Context(), newRenderer(cfg))
		if res.Failed() {
			httpx.WriteErrorMessage(w, http.StatusBadGateway, res.Status.Text)
			return
		}

		_ = httpx.WriteBody(w, http.StatusOK, res.ContentType, res.Chart)
	}
}

func handleSamples(runner Runner, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			httpx.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		res := runner.Run(r.Context(), nil)
		err := httpx.WriteJSON(w, http.StatusOK, SamplesResponse{
			State:   res.Status.State,
			Status:  res.Status.Text,
			Samples: res.Samples,
		})
		if err != nil {
			logger.Error("failed to write samples response", "error", err)
		}
	})
}

// chartSize applies the width and height query parameters to base.
func chartSize(r *http.Request, base heatmap.Config) (heatmap.Config, error) {
	q := r.URL.Query()
	width, err := dimension(q.Get("width"), base.Width, MinWidth, MaxWidth)
	if err != nil {
		return base, fmt.Errorf("width: %w", err)
	}
	height, err := dimension(q.Get("height"), base.Height, MinHeight, MaxHeight)
	if err != nil {
		return base, fmt.Errorf("height: %w", err)
	}
	return base.WithSize(width, height), nil
}

func dimension(raw string, def, lo, hi int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %q", raw)
	}
	return min(max(v, lo), hi), nil
}
