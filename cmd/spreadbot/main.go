// Command spreadbot runs the cross-venue spread scanner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arbsentry/spread-bot/business/arbitrage"
	arbitragedi "github.com/arbsentry/spread-bot/business/arbitrage/di"
	"github.com/arbsentry/spread-bot/business/pricing"
	"github.com/arbsentry/spread-bot/internal/apm"
	"github.com/arbsentry/spread-bot/internal/config"
	"github.com/arbsentry/spread-bot/internal/di"
	"github.com/arbsentry/spread-bot/internal/health"
	"github.com/arbsentry/spread-bot/internal/metrics"
	"github.com/arbsentry/spread-bot/internal/monolith"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.App.LogLevel)
	slog.SetDefault(log)
	log.Info("starting",
		"app", cfg.App.Name,
		"version", version,
		"environment", cfg.App.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	traceProvider := apm.NewEmptyTraceProvider()
	var metricProvider metrics.MetricProvider
	if cfg.Telemetry.Enabled {
		traceProvider = apm.NewTraceProvider(log,
			apm.WithProvider(apm.Provider(cfg.Telemetry.TraceProvider), log))

		opts := []metrics.OptionFn{
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			opts = append(opts, metrics.WithProviderConfig(
				metrics.NewOtelCollectorConfig(cfg.Telemetry.OTLPEndpoint, nil, true)))
		}
		metricProvider = metrics.NewMetricProvider(opts...)

		go metrics.ServePrometheusMetrics(
			metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if metricProvider != nil {
			if err := metricProvider.Shutdown(shutdownCtx); err != nil {
				log.Warn("metric provider shutdown failed", "error", err)
			}
		}
		if err := traceProvider.Stop(); err != nil {
			log.Warn("trace provider shutdown failed", "error", err)
		}
	}()

	mono := monolith.New(cfg, log)
	if err := mono.RegisterModules(pricing.Module{}, arbitrage.Module{}); err != nil {
		return fmt.Errorf("registering modules: %w", err)
	}
	if err := mono.StartModules(ctx); err != nil {
		return fmt.Errorf("starting modules: %w", err)
	}

	scanner := di.GetToken(mono.Services(), arbitragedi.ScannerToken)

	healthSrv := health.NewServer(cfg.Telemetry.HealthPort, version)
	healthSrv.RegisterCheck("config", func(context.Context) (bool, string) {
		return len(cfg.Coins.Catalog) > 0, fmt.Sprintf("%d coins", len(cfg.Coins.Catalog))
	})
	if err := healthSrv.Start(); err != nil {
		log.Warn("health server failed to start", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Stop(shutdownCtx); err != nil {
			log.Warn("health server shutdown failed", "error", err)
		}
	}()

	if err := scanner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scan loop: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
