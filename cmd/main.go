package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/beacon/internal/config"
	"github.com/UnknownOlympus/beacon/internal/emitter"
	"github.com/UnknownOlympus/beacon/internal/handler"
	"github.com/UnknownOlympus/beacon/internal/logger"
	"github.com/UnknownOlympus/beacon/internal/metrics"
	"github.com/UnknownOlympus/beacon/internal/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	readTimeout     = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// writeTimeout bounds health and metrics replies. PUT /location lifts it per request.
var writeTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Canceled on SIGINT/SIGTERM. Every request context derives from it, so a shutdown
	// interrupts running emissions.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stdout)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "Application failed", "error", err)
		stop()
		os.Exit(1)
	}

	log.InfoContext(ctx, "Application stopped gracefully.")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	snk, err := sink.NewSink(ctx, sink.Config{
		Type:     sink.Type(cfg.SinkType),
		CabID:    cfg.CabID,
		Database: cfg.Database,
		Redis:    cfg.Redis,
		Kafka:    cfg.Kafka,
		MQTT:     cfg.MQTT,
		Minio:    cfg.Minio,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("failed to create location sink: %w", err)
	}
	if closer, ok := snk.(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				log.ErrorContext(ctx, "Failed to close location sink", "error", cerr)
			}
		}()
	}
	log.InfoContext(ctx, "Location sink initialized", "type", cfg.SinkType, "cab", cfg.CabID)

	locationEmitter := emitter.NewLocationEmitter(
		log,
		snk,
		cfg.SinkType, // Sink name for metrics
		appMetrics,
		cfg.Iterations,
		cfg.Interval,
	)

	mux := http.NewServeMux()
	handler.NewLocationHandler(locationEmitter, log, appMetrics).RegisterRoutes(mux)
	pinger, _ := snk.(handler.Pinger)
	handler.RegisterMonitoring(mux, log, reg, pinger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting http server", "port", cfg.Port)
		serveErr <- server.ListenAndServe()
	}()

	log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	return nil
}
