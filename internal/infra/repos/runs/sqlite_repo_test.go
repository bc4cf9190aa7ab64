package runs

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
)

func TestInitCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "runs.db")
	repo := NewSQLiteRepository(dbPath)

	if err := repo.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if repo.DB() == nil {
		t.Fatal("expected db handle to be initialized")
	}
	t.Cleanup(func() {
		_ = repo.DB().Close()
	})
}

func sampleRun(started time.Time) *domain.Run {
	return &domain.Run{
		BlueprintID:   "survey",
		BlueprintName: "survey",
		TargetID:      "local",
		TargetName:    "local",
		TargetKind:    domain.TargetKindSQLite,
		Table:         "survey",
		Seed:          42,
		Iterations:    10,
		Mode:          domain.TableModeCreate,
		ConfigHash:    "abc",
		Status:        domain.RunStatusRunning,
		StartedAt:     started,
	}
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, repo.Init())
	defer repo.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC)
	first := sampleRun(base)
	require.NoError(t, repo.Create(first))
	require.NotEmpty(t, first.ID)

	second := sampleRun(base.Add(time.Minute))
	require.NoError(t, repo.Create(second))

	done := base.Add(2 * time.Minute)
	first.Status = domain.RunStatusSuccess
	first.CompletedAt = &done
	first.Stats = json.RawMessage(`{"records_generated":10}`)
	require.NoError(t, repo.Update(first))

	got, err := repo.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSuccess, got.Status)
	assert.True(t, got.StartedAt.Equal(base))
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))
	assert.JSONEq(t, `{"records_generated":10}`, string(got.Stats))
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, "survey", got.Table)

	all, err := repo.List(0, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Nil(t, all[0].CompletedAt)

	running, err := repo.List(10, string(domain.RunStatusRunning))
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, second.ID, running[0].ID)

	_, err = repo.Get("missing")
	assert.Error(t, err)
}

func TestOpen_PicksBackend(t *testing.T) {
	_, ok := Open("postgres://u:p@localhost/db").(*PostgresRepository)
	assert.True(t, ok)
	_, ok = Open("./data/runs.db").(*SQLiteRepository)
	assert.True(t, ok)
}
