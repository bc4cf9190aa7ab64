package parquetfile

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/stats"
)

func readTable(t *testing.T, path string) arrow.Table {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	pr, err := file.NewParquetReader(f)
	require.NoError(t, err)
	t.Cleanup(func() { pr.Close() })

	ar, err := pqarrow.NewFileReader(pr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)
	table, err := ar.ReadTable(context.Background())
	require.NoError(t, err)
	t.Cleanup(table.Release)
	return table
}

func TestParquetTarget_WritesRowGroups(t *testing.T) {
	tgt := NewParquetTarget(t.TempDir())
	require.NoError(t, tgt.Connect())

	cols := []domain.Column{
		{Name: "age", Type: domain.ColumnTypeBigInt, Nullable: true},
		{Name: "income", Type: domain.ColumnTypeDouble, Nullable: true},
		{Name: "born", Type: domain.ColumnTypeDate, Nullable: true},
		{Name: "seen", Type: domain.ColumnTypeTimestamp, Nullable: true},
		{Name: "religion", Type: domain.ColumnTypeString, Nullable: true},
	}
	names := []string{"age", "income", "born", "seen", "religion"}
	seen := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	born := stats.Date{Year: 1990, Month: time.January, Day: 2}

	require.NoError(t, tgt.CreateTableIfNotExists("survey", cols))
	require.NoError(t, tgt.InsertBatch("survey", names, [][]interface{}{
		{int64(30), 1200.5, born, seen, "none"},
		{nil, nil, nil, nil, nil},
	}))
	require.NoError(t, tgt.InsertBatch("survey", names, [][]interface{}{
		{41, 10.0, born, seen, "other"},
	}))
	require.NoError(t, tgt.Close())

	table := readTable(t, tgt.Path("survey"))
	assert.Equal(t, int64(3), table.NumRows())
	require.Equal(t, int64(5), table.NumCols())
	assert.Equal(t, "age", table.Schema().Field(0).Name)
	assert.Equal(t, arrow.INT64, table.Schema().Field(0).Type.ID())
	assert.Equal(t, arrow.DATE32, table.Schema().Field(2).Type.ID())
	assert.Equal(t, 1, table.Column(0).NullN())
}

func TestParquetTarget_AppendToExistingFileFails(t *testing.T) {
	dir := t.TempDir()
	first := NewParquetTarget(dir)
	require.NoError(t, first.Connect())
	require.NoError(t, first.InsertBatch("t", []string{"x"}, [][]interface{}{{1.5}}))
	require.NoError(t, first.Close())

	second := NewParquetTarget(dir)
	require.NoError(t, second.Connect())
	err := second.InsertBatch("t", []string{"x"}, [][]interface{}{{2.5}})
	assert.True(t, errors.Is(err, ErrAppendUnsupported))

	require.NoError(t, second.TruncateTable("t"))
	require.NoError(t, second.InsertBatch("t", []string{"x"}, [][]interface{}{{2.5}}))
	require.NoError(t, second.Close())
	assert.Equal(t, int64(1), readTable(t, second.Path("t")).NumRows())
}

func TestSchemaTypes(t *testing.T) {
	s := Schema([]domain.Column{
		{Name: "b", Type: domain.ColumnTypeBool},
		{Name: "u", Type: domain.ColumnTypeUUID},
	})
	assert.Equal(t, arrow.BOOL, s.Field(0).Type.ID())
	assert.Equal(t, arrow.STRING, s.Field(1).Type.ID())
	assert.True(t, s.Field(0).Nullable)
}
