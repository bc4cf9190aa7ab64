package parquetfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/kwargs"
	"github.com/mmrzaf/sdstats/internal/stats"
)

var ErrAppendUnsupported = errors.New("parquet files cannot be appended to")

// ParquetTarget streams batches into one Snappy-compressed file per table.
// The file footer is written on Close.
type ParquetTarget struct {
	dir     string
	mem     memory.Allocator
	columns map[string][]domain.Column
	fresh   map[string]bool
	table   string
	schema  *arrow.Schema
	writer  *pqarrow.FileWriter
	file    *os.File
}

func NewParquetTarget(dir string) *ParquetTarget {
	return &ParquetTarget{
		dir:     dir,
		mem:     memory.NewGoAllocator(),
		columns: make(map[string][]domain.Column),
		fresh:   make(map[string]bool),
	}
}

func (t *ParquetTarget) Connect() error {
	return os.MkdirAll(t.dir, 0o755)
}

func (t *ParquetTarget) Close() error {
	if t.writer == nil {
		return nil
	}
	err := t.writer.Close()
	ferr := t.file.Close()
	t.writer, t.file = nil, nil
	if err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if ferr != nil && !errors.Is(ferr, os.ErrClosed) {
		return ferr
	}
	return nil
}

func (t *ParquetTarget) Path(table string) string {
	return filepath.Join(t.dir, table+".parquet")
}

// CreateTableIfNotExists fixes the file schema. An existing file is
// replaced on the first insert.
func (t *ParquetTarget) CreateTableIfNotExists(table string, columns []domain.Column) error {
	t.columns[table] = columns
	t.fresh[table] = true
	return nil
}

// TruncateTable discards the file, including one this target is still
// writing.
func (t *ParquetTarget) TruncateTable(table string) error {
	if t.writer != nil && t.table == table {
		if err := t.Close(); err != nil {
			return err
		}
	}
	t.fresh[table] = true
	if err := os.Remove(t.Path(table)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (t *ParquetTarget) DropTable(table string) error {
	if err := t.TruncateTable(table); err != nil {
		return err
	}
	delete(t.fresh, table)
	delete(t.columns, table)
	return nil
}

func (t *ParquetTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	if t.writer == nil {
		if err := t.open(table, columns, rows); err != nil {
			return err
		}
	} else if t.table != table {
		return fmt.Errorf("parquet target already writing '%s'", t.table)
	}

	b := array.NewRecordBuilder(t.mem, t.schema)
	defer b.Release()
	for _, row := range rows {
		for i, v := range row {
			if err := appendValue(b.Field(i), v); err != nil {
				return fmt.Errorf("column '%s': %w", columns[i], err)
			}
		}
	}
	rec := b.NewRecord()
	defer rec.Release()
	return t.writer.Write(rec)
}

func (t *ParquetTarget) open(table string, names []string, rows [][]interface{}) error {
	path := t.Path(table)
	if !t.fresh[table] {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrAppendUnsupported, path)
		}
	}
	cols := t.columns[table]
	if len(cols) != len(names) {
		cols = columnsFromRows(names, rows)
	}
	t.schema = Schema(cols)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	w, err := pqarrow.NewFileWriter(t.schema, f, props, pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(t.mem)))
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	t.writer = w
	t.file = f
	t.table = table
	return nil
}

func columnsFromRows(names []string, rows [][]interface{}) []domain.Column {
	cols := make([]domain.Column, len(names))
	for i, n := range names {
		cols[i] = domain.Column{Name: n, Type: domain.ColumnTypeText, Nullable: true}
		for _, row := range rows {
			if row[i] != nil {
				cols[i].Type = domain.InferColumnType(row[i])
				if _, ok := row[i].(stats.Date); ok {
					cols[i].Type = domain.ColumnTypeDate
				}
				break
			}
		}
	}
	return cols
}

// Schema maps sink columns onto nullable arrow fields.
func Schema(columns []domain.Column) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(ct domain.ColumnType) arrow.DataType {
	switch ct {
	case domain.ColumnTypeInt, domain.ColumnTypeBigInt:
		return arrow.PrimitiveTypes.Int64
	case domain.ColumnTypeFloat, domain.ColumnTypeDouble:
		return arrow.PrimitiveTypes.Float64
	case domain.ColumnTypeBool:
		return arrow.FixedWidthTypes.Boolean
	case domain.ColumnTypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	case domain.ColumnTypeDate:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(builder array.Builder, v interface{}) error {
	if v == nil {
		builder.AppendNull()
		return nil
	}
	switch bldr := builder.(type) {
	case *array.Int64Builder:
		n, ok := kwargs.ToInt64(v)
		if !ok {
			return fmt.Errorf("expected integer, got %v", v)
		}
		bldr.Append(n)
	case *array.Float64Builder:
		f, ok := kwargs.ToFloat64(v)
		if !ok {
			return fmt.Errorf("expected number, got %T", v)
		}
		bldr.Append(f)
	case *array.BooleanBuilder:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		bldr.Append(b)
	case *array.TimestampBuilder:
		ts, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected time, got %T", v)
		}
		bldr.Append(arrow.Timestamp(ts.UTC().UnixMicro()))
	case *array.Date32Builder:
		switch d := v.(type) {
		case stats.Date:
			bldr.Append(arrow.Date32FromTime(d.Time(time.UTC)))
		case time.Time:
			bldr.Append(arrow.Date32FromTime(d))
		default:
			return fmt.Errorf("expected date, got %T", v)
		}
	case *array.StringBuilder:
		switch s := v.(type) {
		case string:
			bldr.Append(s)
		case fmt.Stringer:
			bldr.Append(s.String())
		default:
			bldr.Append(fmt.Sprint(v))
		}
	default:
		return fmt.Errorf("unsupported builder %T", builder)
	}
	return nil
}
