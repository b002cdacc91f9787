// Package source selects the commute data adapter for the renderer.
//
// Two sources are supported:
//
//   - http: the published commute_data.json document (default).
//   - prometheus: a PromQL range query averaged per weekday and hour into the
//     same weekly table, in the configured time zone.
package source

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/HatiCode/commutemap/cmd/renderer/config"
	"github.com/HatiCode/commutemap/pkg/adapters"
	"github.com/HatiCode/commutemap/pkg/features"
)

// New creates the adapter selected by cfg.Source. It exits the process
// when the source cannot be built.
func New(cfg *config.Config, logger *slog.Logger) adapters.Adapter {
	a, err := Build(cfg)
	if err != nil {
		logger.Error("invalid data source", "source", cfg.Source, "error", err)
		os.Exit(1)
	}

	switch cfg.Source {
	case config.SourcePrometheus:
		logger.Info("initializing prometheus source",
			"prom_url", cfg.PromURL,
			"window", cfg.Window,
			"step", cfg.Step,
		)
	default:
		logger.Info("initializing http source",
			"data_url", cfg.DataURL,
			"fetch_timeout", cfg.FetchTimeout,
		)
	}
	return a
}

// Build is New without logging or exiting.
func Build(cfg *config.Config) (adapters.Adapter, error) {
	switch cfg.Source {
	case config.SourceHTTP, "":
		if cfg.DataURL == "" {
			return nil, fmt.Errorf("http source requires a data URL")
		}
		return adapters.NewHTTPAdapter(cfg.DataURL, cfg.FetchTimeout), nil

	case config.SourcePrometheus:
		if cfg.PromQuery == "" {
			return nil, fmt.Errorf("prometheus source requires a query")
		}
		return &adapters.PrometheusAdapter{
			ServerURL:     cfg.PromURL,
			Query:         cfg.PromQuery,
			StepSeconds:   int(cfg.Step.Seconds()),
			WindowSeconds: int(cfg.Window.Seconds()),
			Builder:       features.NewBuilder(cfg.Location()),
			HTTPClient:    &http.Client{Timeout: cfg.FetchTimeout},
		}, nil

	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
