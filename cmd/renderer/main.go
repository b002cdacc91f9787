// Package main implements the commutemap renderer service.
// The renderer fetches the weekly commute table, flattens it to samples and
// serves it as a day × hour heatmap over HTTP (HTML, SVG, PNG, JSON) and gRPC.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/HatiCode/commutemap/cmd/renderer/config"
	"github.com/HatiCode/commutemap/cmd/renderer/cycle"
	"github.com/HatiCode/commutemap/cmd/renderer/logger"
	"github.com/HatiCode/commutemap/cmd/renderer/metrics"
	"github.com/HatiCode/commutemap/cmd/renderer/router"
	"github.com/HatiCode/commutemap/cmd/renderer/source"
	"github.com/HatiCode/commutemap/pkg/api/heatmapv1"
	"github.com/HatiCode/commutemap/pkg/commute"
	"github.com/HatiCode/commutemap/pkg/heatmap"
	"github.com/HatiCode/commutemap/pkg/httpx"
	"github.com/HatiCode/commutemap/pkg/status"
)

var errShuttingDown = errors.New("shutting down")

func main() {
	cfg := config.ParseFlags()

	log := logger.New(cfg)
	slog.SetDefault(log)

	log.Info("starting commutemap renderer",
		"version", "v0.1.0",
		"listen", cfg.Listen,
		"grpc_listen", cfg.GRPCListen,
		"source", cfg.Source,
	)

	chart := loadChart(cfg, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	adapter := source.New(cfg, log)
	c := cycle.New(adapter, cfg.Location(), m, log)

	var draining atomic.Bool
	mux := router.SetupRoutes(c, router.Options{
		Chart:       chart,
		CORSOrigins: cfg.AllowedOrigins(),
		Gatherer:    reg,
		Health: func() error {
			if draining.Load() {
				return errShuttingDown
			}
			return nil
		},
		Logger: log,
	})
	handler := httpx.Chain(mux, httpx.RecoveryMiddleware(log), httpx.LoggingMiddleware(log))
	httpServer := httpx.NewServer(cfg.Listen, handler, log)

	var grpcServer *grpc.Server
	var grpcHealth *health.Server
	if cfg.GRPCListen != "" {
		grpcServer, grpcHealth = startGRPC(cfg.GRPCListen, c, m, log)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	}

	log.Info("shutting down")
	draining.Store(true)

	if grpcServer != nil {
		grpcHealth.Shutdown()
		log.Info("shutting down grpc server")
		grpcServer.GracefulStop()
	}

	if err := httpServer.Stop(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("shutdown complete")
}

// loadChart builds the chart configuration from the theme file and the
// default canvas size. Exits on an invalid theme.
func loadChart(cfg *config.Config, log *slog.Logger) heatmap.Config {
	chart := heatmap.DefaultConfig()
	if cfg.Theme != "" {
		themed, err := heatmap.LoadTheme(cfg.Theme)
		if err != nil {
			log.Error("failed to load theme", "path", cfg.Theme, "error", err)
			os.Exit(1)
		}
		log.Info("loaded chart theme", "path", cfg.Theme)
		chart = themed
	}
	return chart.WithSize(cfg.Width, cfg.Height)
}

func startGRPC(addr string, c *cycle.Cycle, m *metrics.Metrics, log *slog.Logger) (*grpc.Server, *health.Server) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("failed to listen", "address", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()

	svc := heatmapv1.NewService(func(ctx context.Context) (status.Snapshot, []commute.Sample) {
		res := c.Run(ctx, nil)
		return res.Status, res.Samples
	}, log)
	heatmapv1.RegisterHeatmapServer(grpcServer, svc)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(heatmapv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	go func() {
		log.Info("grpc server listening", "address", addr)
		if err := grpcServer.Serve(lis); err != nil {
			m.RecordError("grpc", "serve")
			log.Error("grpc server failed", "error", err)
			os.Exit(1)
		}
	}()

	return grpcServer, healthServer
}
