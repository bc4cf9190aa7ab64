package pgcopy

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/infra/targets/postgres"
	"github.com/mmrzaf/sdstats/internal/stats"
)

// CopyTarget loads records into Postgres with the COPY protocol.
type CopyTarget struct {
	dsn     string
	schema  string
	timeout time.Duration
	conn    *pgx.Conn
}

func NewCopyTarget(dsn, schema string) *CopyTarget {
	if schema == "" {
		schema = "public"
	}
	return &CopyTarget{dsn: dsn, schema: schema, timeout: 5 * time.Minute}
}

func (t *CopyTarget) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), t.timeout)
}

func (t *CopyTarget) Connect() error {
	ctx, cancel := t.ctx()
	defer cancel()
	conn, err := pgx.Connect(ctx, t.dsn)
	if err != nil {
		return err
	}
	t.conn = conn
	return nil
}

func (t *CopyTarget) Close() error {
	if t.conn == nil {
		return nil
	}
	ctx, cancel := t.ctx()
	defer cancel()
	return t.conn.Close(ctx)
}

func (t *CopyTarget) ServerVersion() (string, error) {
	ctx, cancel := t.ctx()
	defer cancel()
	var version string
	if err := t.conn.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

func (t *CopyTarget) CreateTableIfNotExists(table string, columns []domain.Column) error {
	ctx, cancel := t.ctx()
	defer cancel()

	var exists bool
	query := `SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)`
	if err := t.conn.QueryRow(ctx, query, t.schema, table).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err := t.conn.Exec(ctx, postgres.CreateTableSQL(pgx.Identifier{t.schema, table}.Sanitize(), columns))
	return err
}

func (t *CopyTarget) TruncateTable(table string) error {
	ctx, cancel := t.ctx()
	defer cancel()
	_, err := t.conn.Exec(ctx, "TRUNCATE TABLE "+pgx.Identifier{t.schema, table}.Sanitize())
	return err
}

func (t *CopyTarget) DropTable(table string) error {
	ctx, cancel := t.ctx()
	defer cancel()
	_, err := t.conn.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{t.schema, table}.Sanitize())
	return err
}

func (t *CopyTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := t.ctx()
	defer cancel()

	n, err := t.conn.CopyFrom(ctx, pgx.Identifier{t.schema, table}, columns, pgx.CopyFromRows(CopyRows(rows)))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", table, err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(rows))
	}
	return nil
}

// CopyRows converts values pgx cannot encode in binary COPY.
func CopyRows(rows [][]interface{}) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		converted := make([]interface{}, len(row))
		for j, v := range row {
			switch val := v.(type) {
			case stats.Date:
				converted[j] = val.Time(time.UTC)
			case stats.TimeOfDay:
				converted[j] = val.String()
			default:
				converted[j] = v
			}
		}
		out[i] = converted
	}
	return out
}
