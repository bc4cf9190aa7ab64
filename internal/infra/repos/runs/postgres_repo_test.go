package runs

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
)

func TestPostgresRepository_InitAppliesPendingMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS schema_migrations`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_runs_started_at`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migrations(version) VALUES ($1)`)).
		WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepositoryWithDB(db)
	require.NoError(t, repo.Init())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	run := sampleRun(started)
	run.ID = "run-1"

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO runs (`)).
		WithArgs("run-1", "survey", "survey", "", "local", "local", "sqlite", "survey",
			int64(42), 10, "create", "abc", domain.RunStatusRunning, started, nil, nil, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cols := []string{"id", "blueprint_id", "blueprint_name", "blueprint_version", "target_id", "target_name",
		"target_kind", "table_name", "seed", "iterations", "mode", "config_hash", "status", "started_at",
		"completed_at", "stats", "error"}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM runs WHERE id = $1`)).WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("run-1", "survey", "survey", "", "local", "local",
			"sqlite", "survey", int64(42), int64(10), "create", "abc", "failed", started, nil, nil, "boom"))

	repo := NewPostgresRepositoryWithDB(db)
	require.NoError(t, repo.Create(run))

	got, err := repo.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Nil(t, got.CompletedAt)
	assert.Nil(t, got.Stats)
	require.NoError(t, mock.ExpectationsWereMet())
}
