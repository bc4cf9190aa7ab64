package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/infra/targets/file"
	"github.com/mmrzaf/sdstats/internal/infra/targets/parquetfile"
	"github.com/mmrzaf/sdstats/internal/infra/targets/pgcopy"
	"github.com/mmrzaf/sdstats/internal/infra/targets/redislist"
)

func TestBuildTargetKinds(t *testing.T) {
	kinds := []string{
		domain.TargetKindSQLite,
		domain.TargetKindPostgres,
		domain.TargetKindPGCopy,
		domain.TargetKindElasticsearch,
		domain.TargetKindRedis,
		domain.TargetKindCSV,
		domain.TargetKindJSONL,
		domain.TargetKindParquet,
	}
	for _, kind := range kinds {
		tgt, err := BuildTarget(&domain.TargetConfig{Kind: kind, DSN: "x"})
		require.NoError(t, err, kind)
		assert.NotNil(t, tgt, kind)
	}

	tgt, _ := BuildTarget(&domain.TargetConfig{Kind: domain.TargetKindPGCopy, DSN: "x"})
	assert.IsType(t, &pgcopy.CopyTarget{}, tgt)
	tgt, _ = BuildTarget(&domain.TargetConfig{Kind: domain.TargetKindRedis, DSN: "x"})
	assert.IsType(t, &redislist.RedisTarget{}, tgt)
	tgt, _ = BuildTarget(&domain.TargetConfig{Kind: domain.TargetKindJSONL, DSN: "x"})
	assert.IsType(t, &file.FileTarget{}, tgt)
	tgt, _ = BuildTarget(&domain.TargetConfig{Kind: domain.TargetKindParquet, DSN: "x"})
	assert.IsType(t, &parquetfile.ParquetTarget{}, tgt)

	_, err := BuildTarget(&domain.TargetConfig{Kind: "oracle", DSN: "x"})
	assert.Error(t, err)
}
