package runs

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/mmrzaf/sdstats/internal/domain"
)

// Repository stores run history.
type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
	Close() error
}

// Open picks the backend from runsDB: a postgres:// URL selects Postgres,
// anything else is a SQLite file path.
func Open(runsDB string) Repository {
	if strings.HasPrefix(runsDB, "postgres://") || strings.HasPrefix(runsDB, "postgresql://") {
		return NewPostgresRepository(runsDB)
	}
	return NewSQLiteRepository(runsDB)
}

const runColumns = `id, blueprint_id, blueprint_name, blueprint_version,
		target_id, target_name, target_kind, table_name,
		seed, iterations, mode, config_hash, status, started_at, completed_at, stats, error`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRun reads one row selected with runColumns. The timestamp columns
// are scanned into startedAt and completedAt, which fill converts.
func scanRun(row rowScanner, startedAt, completedAt interface{}, fill func(run *domain.Run) error) (*domain.Run, error) {
	var run domain.Run
	var statsStr, errStr sql.NullString
	err := row.Scan(
		&run.ID, &run.BlueprintID, &run.BlueprintName, &run.BlueprintVersion,
		&run.TargetID, &run.TargetName, &run.TargetKind, &run.Table,
		&run.Seed, &run.Iterations, &run.Mode, &run.ConfigHash, &run.Status,
		startedAt, completedAt, &statsStr, &errStr,
	)
	if err != nil {
		return nil, err
	}
	if statsStr.Valid && statsStr.String != "" {
		run.Stats = json.RawMessage(statsStr.String)
	}
	if errStr.Valid {
		run.Error = errStr.String
	}
	if err := fill(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

func statsValue(run *domain.Run) interface{} {
	if len(run.Stats) == 0 {
		return nil
	}
	return string(run.Stats)
}
