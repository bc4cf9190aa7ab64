package pgcopy

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/stats"
)

func TestCopyRowsConvertsCalendarValues(t *testing.T) {
	rows := CopyRows([][]interface{}{{
		stats.Date{Year: 2020, Month: time.March, Day: 4},
		stats.TimeOfDay{Hour: 5, Minute: 6, Second: 7},
		42,
	}})
	assert.Equal(t, time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC), rows[0][0])
	assert.Equal(t, "05:06:07", rows[0][1])
	assert.Equal(t, 42, rows[0][2])
}

func TestCopyTarget_Live(t *testing.T) {
	dsn := os.Getenv("SDSTATS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("SDSTATS_TEST_PG_DSN not set")
	}
	tgt := NewCopyTarget(dsn, "public")
	require.NoError(t, tgt.Connect())
	defer tgt.Close()

	table := "sdstats_copy_test"
	cols := []domain.Column{{Name: "id", Type: domain.ColumnTypeBigInt, Nullable: true}}
	require.NoError(t, tgt.CreateTableIfNotExists(table, cols))
	require.NoError(t, tgt.TruncateTable(table))
	require.NoError(t, tgt.InsertBatch(table, []string{"id"}, [][]interface{}{{int64(1)}, {int64(2)}}))
}
