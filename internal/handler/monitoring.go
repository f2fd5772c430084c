package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterMonitoring mounts /healthz and /metrics on mux.
// A nil pinger means there is no backend to check and /healthz always reports OK.
func RegisterMonitoring(mux *http.ServeMux, log *slog.Logger, reg *prometheus.Registry, pinger Pinger) {
	mux.HandleFunc("GET /healthz", func(writer http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		log.DebugContext(ctx, "Performing health checks...")

		status, body := http.StatusOK, "OK"
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				log.WarnContext(ctx, "Sink ping failed", "error", err)
				status, body = http.StatusServiceUnavailable, "sink ping failed"
			}
		}

		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
