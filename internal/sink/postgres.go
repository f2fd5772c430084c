package sink

import (
	"context"

	"github.com/UnknownOlympus/beacon/internal/models"
	"github.com/UnknownOlympus/beacon/internal/repository"
)

// PostgresSink appends every update to the cab_locations table through the repository.
type PostgresSink struct {
	cabID   string
	repo    repository.Interface
	now     clock
	closeFn func() error
}

func NewPostgresSink(cabID string, repo repository.Interface) *PostgresSink {
	return &PostgresSink{cabID: cabID, repo: repo, now: utcNow}
}

func (ps *PostgresSink) UpdateLocation(ctx context.Context, coordinates string) error {
	return ps.repo.SaveLocation(ctx, models.LocationUpdate{
		CabID:       ps.cabID,
		Coordinates: coordinates,
		RecordedAt:  ps.now(),
	})
}

func (ps *PostgresSink) Ping(ctx context.Context) error {
	return ps.repo.Ping(ctx)
}

// Close releases the connection pool when the sink owns one.
func (ps *PostgresSink) Close() error {
	if ps.closeFn == nil {
		return nil
	}
	return ps.closeFn()
}
