package emitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/UnknownOlympus/beacon/internal/metrics"
	"github.com/UnknownOlympus/beacon/internal/models"
	"github.com/UnknownOlympus/beacon/internal/sink"
)

const (
	// DefaultIterations is how many updates one request emits.
	DefaultIterations = 100
	// DefaultInterval is the pause after every update.
	DefaultInterval = time.Second
)

// ErrInterrupted is returned when the pause between updates is cut short by context cancellation.
// Updates already handed to the sink stay there.
var ErrInterrupted = errors.New("location emission interrupted")

// RandomSource yields values in [0,1). It must be safe for concurrent use.
type RandomSource func() float64

// WaitFunc blocks for d or until ctx is done, whichever comes first.
type WaitFunc func(ctx context.Context, d time.Duration) error

// LocationEmitter feeds a sink with generated cab coordinates at a fixed pace.
// It keeps no per-call state, so concurrent callers each run an independent loop.
type LocationEmitter struct {
	log        *slog.Logger     // Logger for emission progress
	sink       sink.Sink        // Receiver of every coordinate string
	sinkName   string           // Name of the sink for metrics labeling
	metrics    *metrics.Metrics // Metrics for tracking emissions
	iterations int              // Number of updates per call
	interval   time.Duration    // Pause after each update
	random     RandomSource
	wait       WaitFunc
}

// Option customizes a LocationEmitter.
type Option func(*LocationEmitter)

// WithRandomSource replaces the coordinate generator.
func WithRandomSource(src RandomSource) Option {
	return func(le *LocationEmitter) { le.random = src }
}

// WithWaitFunc replaces how the emitter pauses between updates.
func WithWaitFunc(wait WaitFunc) Option {
	return func(le *LocationEmitter) { le.wait = wait }
}

// NewLocationEmitter creates a LocationEmitter that sends iterations updates to the sink, pausing
// interval after each. Non-positive iterations or interval fall back to the defaults.
func NewLocationEmitter(
	log *slog.Logger,
	snk sink.Sink,
	sinkName string,
	metrics *metrics.Metrics,
	iterations int,
	interval time.Duration,
	opts ...Option,
) *LocationEmitter {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	le := &LocationEmitter{
		log:        log,
		sink:       snk,
		sinkName:   sinkName,
		metrics:    metrics,
		iterations: iterations,
		interval:   interval,
		random:     rand.Float64,
		wait:       sleepContext,
	}
	for _, opt := range opts {
		opt(le)
	}

	return le
}

// UpdateLocation emits every update synchronously and only then acknowledges.
// A sink error aborts the remaining updates and is returned as is (wrapped); a cancelled ctx
// during a pause yields ErrInterrupted. Either way no partial result is reported.
func (le *LocationEmitter) UpdateLocation(ctx context.Context) (models.UpdateResult, error) {
	le.metrics.ActiveEmitters.Inc()
	defer le.metrics.ActiveEmitters.Dec()

	le.log.InfoContext(ctx, "Location emission started", "updates", le.iterations, "interval", le.interval)

	sent := 0
	for remaining := le.iterations; remaining > 0; remaining-- {
		coords := models.CoordinatePair{Latitude: le.random(), Longitude: le.random()}

		startTime := time.Now()
		err := le.sink.UpdateLocation(ctx, coords.String())
		le.metrics.SinkSeconds.WithLabelValues(le.sinkName).Observe(time.Since(startTime).Seconds())
		if err != nil {
			le.metrics.UpdatesEmitted.WithLabelValues("failure").Inc()
			le.log.ErrorContext(ctx, "Sink rejected location update", "sent", sent, "error", err)
			return models.UpdateResult{}, fmt.Errorf("failed to update location after %d updates: %w", sent, err)
		}
		sent++
		le.metrics.UpdatesEmitted.WithLabelValues("success").Inc()
		le.log.DebugContext(ctx, "Location update sent", "coordinates", coords.String(), "remaining", remaining-1)

		if err = le.wait(ctx, le.interval); err != nil {
			le.log.WarnContext(ctx, "Location emission interrupted", "sent", sent, "error", err)
			return models.UpdateResult{}, fmt.Errorf("%w after %d updates: %w", ErrInterrupted, sent, err)
		}
	}

	le.log.InfoContext(ctx, "Location emission finished", "sent", sent)

	return models.NewUpdateResult(), nil
}

// sleepContext is the default WaitFunc: a timer raced against ctx.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
