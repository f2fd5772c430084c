package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/beacon/internal/models"
)

// EnsureSchema creates the cab_locations table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS cab_locations (
			id          BIGSERIAL PRIMARY KEY,
			cab_id      TEXT        NOT NULL,
			coordinates TEXT        NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create cab_locations table: %w", err)
	}

	return nil
}

// SaveLocation appends a location update for a cab. Rows are never updated, every call is a new row.
func (r *Repository) SaveLocation(ctx context.Context, update models.LocationUpdate) error {
	query := `
		INSERT INTO cab_locations (cab_id, coordinates, recorded_at)
		VALUES ($1, $2, $3);
	`

	_, err := r.db.Exec(ctx, query, update.CabID, update.Coordinates, update.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cab location: %w", err)
	}

	r.log.DebugContext(ctx, "Cab location stored", "cab", update.CabID, "coordinates", update.Coordinates)

	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
