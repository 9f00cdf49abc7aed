package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/stabdash/pkg/cli/config"
	controller "github.com/secmon-lab/stabdash/pkg/controller/http"
	"github.com/secmon-lab/stabdash/pkg/service/chart"
	"github.com/secmon-lab/stabdash/pkg/service/metrics"
	"github.com/secmon-lab/stabdash/pkg/usecase"
	"github.com/secmon-lab/stabdash/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		storeCfg     config.Store
		dashboardCfg config.Dashboard
	)

	flags := joinFlags(
		serverCfg.Flags(),
		storeCfg.Flags(),
		dashboardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting stabdash server",
				slog.Any("server", serverCfg),
				slog.Any("store", storeCfg),
				slog.Any("dashboard", dashboardCfg),
			)

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			recorder, err := metrics.New(registry)
			if err != nil {
				return goerr.Wrap(err, "failed to register metrics")
			}

			dashboard, layout, err := newDashboard(&storeCfg, &dashboardCfg, usecase.WithMetrics(recorder))
			if err != nil {
				return err
			}

			var opts []controller.Option
			if serverCfg.Metrics {
				opts = append(opts, controller.WithMetricsHandler(
					promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
				))
			}

			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				dashboard,
				chart.New(layout.ChartSize.Width, layout.ChartSize.Height),
				opts...,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			if serverCfg.Warmup {
				async.Dispatch(ctx, "warmup", dashboard.Warm)
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
