package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/beacon/internal/emitter"
	"github.com/UnknownOlympus/beacon/internal/metrics"
	"github.com/UnknownOlympus/beacon/internal/models"
)

// LocationUpdater runs one complete location emission.
type LocationUpdater interface {
	UpdateLocation(ctx context.Context) (models.UpdateResult, error)
}

// LocationHandler serves the location API.
type LocationHandler struct {
	updater LocationUpdater
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewLocationHandler(updater LocationUpdater, log *slog.Logger, metrics *metrics.Metrics) *LocationHandler {
	return &LocationHandler{updater: updater, log: log, metrics: metrics}
}

// RegisterRoutes mounts PUT /location on mux. Other methods on the path get 405 from the mux.
func (h *LocationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /location", h.handleUpdateLocation)
}

// handleUpdateLocation blocks for the whole emission. The request body, if any, is ignored.
// The server write deadline is lifted for this route; the emission length bounds it instead.
func (h *LocationHandler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.log.DebugContext(ctx, "Write deadline left unchanged", "error", err)
	}

	result, err := h.updater.UpdateLocation(ctx)
	if err != nil {
		outcome := "failure"
		if errors.Is(err, emitter.ErrInterrupted) {
			outcome = "interrupted"
		}
		h.metrics.Requests.WithLabelValues(outcome).Inc()
		h.log.ErrorContext(ctx, "Location update failed", "outcome", outcome, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.metrics.Requests.WithLabelValues("success").Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(result); err != nil {
		h.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}
