package file

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/stats"
)

var cols = []domain.Column{{Name: "name", Type: domain.ColumnTypeString, Nullable: true}}

func TestFileTarget_CSV(t *testing.T) {
	tgt := NewFileTarget(t.TempDir(), FormatCSV)
	require.NoError(t, tgt.Connect())
	require.NoError(t, tgt.CreateTableIfNotExists("people", cols))

	rows := [][]interface{}{{"ada", 36.5}, {"bob", nil}}
	require.NoError(t, tgt.InsertBatch("people", []string{"name", "score"}, rows))
	require.NoError(t, tgt.InsertBatch("people", []string{"name", "score"}, [][]interface{}{{"cy", 1.0}}))

	b, err := os.ReadFile(tgt.Path("people"))
	require.NoError(t, err)
	assert.Equal(t, "name,score\nada,36.5\nbob,\ncy,1\n", string(b))

	require.NoError(t, tgt.TruncateTable("people"))
	require.NoError(t, tgt.InsertBatch("people", []string{"name", "score"}, [][]interface{}{{"dee", 2.0}}))
	b, err = os.ReadFile(tgt.Path("people"))
	require.NoError(t, err)
	assert.Equal(t, "name,score\ndee,2\n", string(b))
}

func TestFileTarget_JSONL(t *testing.T) {
	tgt := NewFileTarget(t.TempDir(), FormatJSONL)
	require.NoError(t, tgt.Connect())
	require.NoError(t, tgt.CreateTableIfNotExists("events", cols))

	rows := [][]interface{}{{"b", 2}, {"a", 1}}
	require.NoError(t, tgt.InsertBatch("events", []string{"name", "n"}, rows))

	f, err := os.Open(tgt.Path("events"))
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 2)
	assert.Equal(t, `{"name":"b","n":2}`, lines[0])

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, "a", doc["name"])
}

func TestFileTarget_CreateKeepsExistingFile(t *testing.T) {
	tgt := NewFileTarget(t.TempDir(), FormatJSONL)
	require.NoError(t, tgt.Connect())
	require.NoError(t, tgt.InsertBatch("t", []string{"x"}, [][]interface{}{{1}}))
	require.NoError(t, tgt.CreateTableIfNotExists("t", cols))

	info, err := os.Stat(tgt.Path("t"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestFileTarget_RejectsUnknownFormat(t *testing.T) {
	assert.Error(t, NewFileTarget(t.TempDir(), Format("xml")).Connect())
}

func TestCSVRow(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := CSVRow([]interface{}{nil, "x", ts, stats.Date{Year: 2024, Month: 1, Day: 2}, int64(7), true})
	assert.Equal(t, []string{"", "x", "2024-01-02T03:04:05Z", "2024-01-02", "7", "true"}, got)
}
