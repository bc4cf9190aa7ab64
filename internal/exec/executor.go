package exec

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/stats"
)

// Target is a record sink. Rows passed to InsertBatch follow the column
// order given to CreateTableIfNotExists.
type Target interface {
	Connect() error
	Close() error
	CreateTableIfNotExists(table string, columns []domain.Column) error
	TruncateTable(table string) error
	InsertBatch(table string, columns []string, rows [][]interface{}) error
}

const DefaultBatchSize = 1000

type Executor struct {
	batchSize int
}

func NewExecutor(batchSize int) *Executor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Executor{batchSize: batchSize}
}

// Execute drains records into table. Columns come from the first batch;
// later records may omit columns but must not add new ones.
func (e *Executor) Execute(records iter.Seq2[*domain.Record, error], target Target, table, mode string) (_ *domain.RunStats, err error) {
	if err := target.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to target: %w", err)
	}
	defer func() {
		if cerr := target.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close target: %w", cerr)
		}
	}()

	startTime := time.Now()
	runStats := &domain.RunStats{}

	var (
		columns []domain.Column
		names   []string
		known   map[string]bool
		pending []*domain.Record
	)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if columns == nil {
			columns = InferColumns(pending)
			names = make([]string, len(columns))
			known = make(map[string]bool, len(columns))
			for i, c := range columns {
				names[i] = c.Name
				known[c.Name] = true
			}
			if err := prepareTable(target, table, columns, mode); err != nil {
				return err
			}
		}

		rows := make([][]interface{}, len(pending))
		for i, rec := range pending {
			for _, k := range rec.Keys() {
				if !known[k] {
					return fmt.Errorf("record %d has unknown column '%s'", runStats.RecordsGenerated+int64(i), k)
				}
			}
			row := rec.Values(names)
			for j, v := range row {
				row[j] = normalize(v, columns[j].Type)
			}
			rows[i] = row
		}
		if err := target.InsertBatch(table, names, rows); err != nil {
			return fmt.Errorf("failed to insert batch into '%s': %w", table, err)
		}
		runStats.RecordsGenerated += int64(len(pending))
		runStats.Batches++
		pending = pending[:0]
		return nil
	}

	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		pending = append(pending, rec)
		if len(pending) >= e.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	runStats.Columns = columns
	runStats.DurationSeconds = time.Since(startTime).Seconds()
	return runStats, nil
}

func prepareTable(target Target, table string, columns []domain.Column, mode string) error {
	if mode == "" {
		mode = domain.TableModeCreate
	}
	switch mode {
	case domain.TableModeCreate:
		if err := target.CreateTableIfNotExists(table, columns); err != nil {
			return fmt.Errorf("failed to create table '%s': %w", table, err)
		}
	case domain.TableModeTruncate:
		if err := target.CreateTableIfNotExists(table, columns); err != nil {
			return fmt.Errorf("failed to create table '%s': %w", table, err)
		}
		if err := target.TruncateTable(table); err != nil {
			return fmt.Errorf("failed to truncate table '%s': %w", table, err)
		}
	case domain.TableModeAppend:
	default:
		return fmt.Errorf("unknown table mode: %s", mode)
	}
	return nil
}

// InferColumns derives nullable columns from a batch of records, in order of
// first appearance. A column's type covers every non-nil value it sees in the
// batch; conflicting values widen it per domain.WidenColumnType.
func InferColumns(records []*domain.Record) []domain.Column {
	var columns []domain.Column
	index := make(map[string]int)
	typed := make(map[string]bool)

	for _, rec := range records {
		for _, k := range rec.Keys() {
			v, _ := rec.Get(k)
			i, ok := index[k]
			if !ok {
				i = len(columns)
				index[k] = i
				columns = append(columns, domain.Column{Name: k, Type: domain.ColumnTypeText, Nullable: true})
			}
			if v == nil {
				continue
			}
			if !typed[k] {
				columns[i].Type = columnType(v)
				typed[k] = true
			} else {
				columns[i].Type = domain.WidenColumnType(columns[i].Type, columnType(v))
			}
		}
	}
	return columns
}

func columnType(v interface{}) domain.ColumnType {
	switch v.(type) {
	case stats.Date:
		return domain.ColumnTypeDate
	case stats.TimeOfDay:
		return domain.ColumnTypeString
	default:
		return domain.InferColumnType(v)
	}
}

// normalize turns values no sink understands natively into JSON text, and
// renders scalars landing in a text column as strings.
func normalize(v interface{}, colType domain.ColumnType) interface{} {
	switch v.(type) {
	case *domain.Record, map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	if colType != domain.ColumnTypeText {
		return v
	}
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	case int, int32, int64, uint32, float32, float64, bool:
		return fmt.Sprint(val)
	default:
		return v
	}
}
