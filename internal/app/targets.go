package app

import (
	"fmt"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/exec"
	esTarget "github.com/mmrzaf/sdstats/internal/infra/targets/elasticsearch"
	fileTarget "github.com/mmrzaf/sdstats/internal/infra/targets/file"
	"github.com/mmrzaf/sdstats/internal/infra/targets/parquetfile"
	"github.com/mmrzaf/sdstats/internal/infra/targets/pgcopy"
	pgTarget "github.com/mmrzaf/sdstats/internal/infra/targets/postgres"
	"github.com/mmrzaf/sdstats/internal/infra/targets/redislist"
	sqliteTarget "github.com/mmrzaf/sdstats/internal/infra/targets/sqlite"
)

// BuildTarget returns an unconnected sink for t.
func BuildTarget(t *domain.TargetConfig) (exec.Target, error) {
	switch t.Kind {
	case domain.TargetKindPostgres:
		return pgTarget.NewPostgresTarget(t.DSN, t.Schema), nil
	case domain.TargetKindPGCopy:
		return pgcopy.NewCopyTarget(t.DSN, t.Schema), nil
	case domain.TargetKindSQLite:
		return sqliteTarget.NewSQLiteTarget(t.DSN), nil
	case domain.TargetKindElasticsearch:
		return esTarget.NewElasticsearchTarget(t.DSN), nil
	case domain.TargetKindRedis:
		return redislist.NewRedisTarget(t.DSN, t.Options["prefix"]), nil
	case domain.TargetKindCSV:
		return fileTarget.NewFileTarget(t.DSN, fileTarget.FormatCSV), nil
	case domain.TargetKindJSONL:
		return fileTarget.NewFileTarget(t.DSN, fileTarget.FormatJSONL), nil
	case domain.TargetKindParquet:
		return parquetfile.NewParquetTarget(t.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported target kind: %s", t.Kind)
	}
}
