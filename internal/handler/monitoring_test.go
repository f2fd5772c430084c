package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/beacon/internal/handler"
	"github.com/UnknownOlympus/beacon/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	tests := []struct {
		name   string
		pinger handler.Pinger
		status int
		body   string
	}{
		{name: "no backend", pinger: nil, status: http.StatusOK, body: "OK"},
		{name: "backend up", pinger: pingerFunc(func(context.Context) error { return nil }), status: http.StatusOK, body: "OK"},
		{
			name:   "backend down",
			pinger: pingerFunc(func(context.Context) error { return assert.AnError }),
			status: http.StatusServiceUnavailable,
			body:   "sink ping failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			handler.RegisterMonitoring(mux, slog.Default(), prometheus.NewRegistry(), tt.pinger)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)
	appMetrics.Requests.WithLabelValues("success").Inc()

	mux := http.NewServeMux()
	handler.RegisterMonitoring(mux, slog.Default(), reg, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `location_update_requests_total{outcome="success"} 1`)
}
