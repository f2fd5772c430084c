package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpdatesEmitted *prometheus.CounterVec
	SinkSeconds    *prometheus.HistogramVec
	ActiveEmitters prometheus.Gauge
	Requests       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpdatesEmitted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "location_updates_emitted_total",
			Help: "Total number of location updates handed to the sink.",
		}, []string{"status"}),
		SinkSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "location_sink_request_duration_seconds",
			Help:    "Duration of location update calls to the sink.",
			Buckets: prometheus.DefBuckets,
		}, []string{"sink"}),
		ActiveEmitters: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "location_active_emissions",
			Help: "Current number of requests running an emission loop.",
		}),
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "location_update_requests_total",
			Help: "Total number of location update requests by outcome.",
		}, []string{"outcome"}),
	}
}
