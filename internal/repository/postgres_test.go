package repository_test

import (
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/beacon/internal/models"
	"github.com/UnknownOlympus/beacon/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertLocationQuery = `
		INSERT INTO cab_locations (cab_id, coordinates, recorded_at)
		VALUES ($1, $2, $3);
	`

func TestSaveLocation(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	update := models.LocationUpdate{
		CabID:       "cab-1",
		Coordinates: "0.5,0.25",
		RecordedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("error - insert location", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(insertLocationQuery)).
			WithArgs(update.CabID, update.Coordinates, update.RecordedAt).
			WillReturnError(assert.AnError)

		err = repo.SaveLocation(ctx, update)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to insert cab location")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - insert location", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(insertLocationQuery)).
			WithArgs(update.CabID, update.Coordinates, update.RecordedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.SaveLocation(ctx, update)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	pattern := regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS cab_locations")

	t.Run("error - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(pattern).WillReturnError(assert.AnError)

		err = repo.EnsureSchema(ctx)

		require.ErrorContains(t, err, "failed to create cab_locations table")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(pattern).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		require.NoError(t, repo.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPing(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - ping", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectPing().WillReturnError(assert.AnError)

		err = repo.Ping(ctx)

		require.ErrorContains(t, err, "failed to ping database")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - ping", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectPing()

		require.NoError(t, repo.Ping(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
