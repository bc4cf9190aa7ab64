package file

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mmrzaf/sdstats/internal/domain"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// FileTarget writes each table to "<dir>/<table>.<format>".
type FileTarget struct {
	dir    string
	format Format
}

func NewFileTarget(dir string, format Format) *FileTarget {
	return &FileTarget{dir: dir, format: format}
}

func (t *FileTarget) Connect() error {
	if t.format != FormatCSV && t.format != FormatJSONL {
		return fmt.Errorf("unsupported file format: %s", t.format)
	}
	return os.MkdirAll(t.dir, 0o755)
}

func (t *FileTarget) Close() error { return nil }

// Path returns the file backing table.
func (t *FileTarget) Path(table string) string {
	return filepath.Join(t.dir, table+"."+string(t.format))
}

func (t *FileTarget) CreateTableIfNotExists(table string, columns []domain.Column) error {
	if _, err := os.Stat(t.Path(table)); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	f, err := os.Create(t.Path(table))
	if err != nil {
		return err
	}
	return f.Close()
}

func (t *FileTarget) TruncateTable(table string) error {
	return os.Truncate(t.Path(table), 0)
}

func (t *FileTarget) DropTable(table string) error {
	if err := os.Remove(t.Path(table)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (t *FileTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	f, err := os.OpenFile(t.Path(table), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	switch t.format {
	case FormatCSV:
		info, err := f.Stat()
		if err != nil {
			return err
		}
		w := csv.NewWriter(f)
		if info.Size() == 0 {
			if err := w.Write(columns); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if err := w.Write(CSVRow(row)); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		enc := json.NewEncoder(f)
		for i, row := range rows {
			if err := enc.Encode(domain.RecordFrom(columns, row)); err != nil {
				return fmt.Errorf("encode row %d: %w", i, err)
			}
		}
		return nil
	}
}

// CSVRow renders values as CSV cells; nil becomes an empty cell.
func CSVRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch val := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = val
		case time.Time:
			out[i] = val.Format(time.RFC3339Nano)
		case float64:
			out[i] = strconv.FormatFloat(val, 'f', -1, 64)
		case float32:
			out[i] = strconv.FormatFloat(float64(val), 'f', -1, 32)
		case fmt.Stringer:
			out[i] = val.String()
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out
}
