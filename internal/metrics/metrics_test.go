package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/beacon/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	appMetrics.UpdatesEmitted.WithLabelValues("success").Inc()
	appMetrics.Requests.WithLabelValues("failure").Add(2)
	appMetrics.ActiveEmitters.Inc()
	appMetrics.SinkSeconds.WithLabelValues("log").Observe(0.1)

	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.UpdatesEmitted.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(appMetrics.Requests.WithLabelValues("failure")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ActiveEmitters), 0)

	count, err := testutil.GatherAndCount(reg, "location_sink_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)

	assert.Panics(t, func() {
		metrics.NewMetrics(reg)
	})
}
