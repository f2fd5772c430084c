package sink

import (
	"context"
	"log/slog"
)

// LogSink writes every update to the service log. It is the default when no backend is configured.
// Updates are logged at warn, the lowest level the production logger keeps.
type LogSink struct {
	cabID string
	log   *slog.Logger
}

func NewLogSink(cabID string, log *slog.Logger) *LogSink {
	return &LogSink{cabID: cabID, log: log}
}

func (ls *LogSink) UpdateLocation(ctx context.Context, coordinates string) error {
	ls.log.WarnContext(ctx, "Cab location updated", "cab", ls.cabID, "coordinates", coordinates)
	return nil
}
