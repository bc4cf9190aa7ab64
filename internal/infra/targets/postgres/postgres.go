package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/mmrzaf/sdstats/internal/domain"
)

// maxParams is the Postgres bind parameter limit per statement.
const maxParams = 65535

type PostgresTarget struct {
	dsn    string
	schema string
	db     *sql.DB
}

func NewPostgresTarget(dsn, schema string) *PostgresTarget {
	if schema == "" {
		schema = "public"
	}
	return &PostgresTarget{
		dsn:    dsn,
		schema: schema,
	}
}

// NewPostgresTargetWithDB wraps an open handle; Connect only pings it.
func NewPostgresTargetWithDB(db *sql.DB, schema string) *PostgresTarget {
	t := NewPostgresTarget("", schema)
	t.db = db
	return t
}

func (t *PostgresTarget) Connect() error {
	if t.db == nil {
		db, err := sql.Open("postgres", t.dsn)
		if err != nil {
			return err
		}
		t.db = db
	}
	return t.db.Ping()
}

func (t *PostgresTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *PostgresTarget) ServerVersion() (string, error) {
	var version string
	if err := t.db.QueryRow("SHOW server_version").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

func (t *PostgresTarget) qualified(table string) string {
	return pq.QuoteIdentifier(t.schema) + "." + pq.QuoteIdentifier(table)
}

func (t *PostgresTarget) CreateTableIfNotExists(table string, columns []domain.Column) error {
	var exists bool
	query := `SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)`
	if err := t.db.QueryRow(query, t.schema, table).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err := t.db.Exec(CreateTableSQL(t.qualified(table), columns))
	return err
}

// CreateTableSQL renders the DDL for columns under an already quoted name.
func CreateTableSQL(qualified string, columns []domain.Column) string {
	columnDefs := make([]string, len(columns))
	for i, col := range columns {
		nullable := ""
		if !col.Nullable {
			nullable = " NOT NULL"
		}
		columnDefs[i] = fmt.Sprintf("%s %s%s", pq.QuoteIdentifier(col.Name), MapColumnType(col.Type), nullable)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", qualified, strings.Join(columnDefs, ", "))
}

func MapColumnType(colType domain.ColumnType) string {
	switch colType {
	case domain.ColumnTypeInt:
		return "INTEGER"
	case domain.ColumnTypeBigInt:
		return "BIGINT"
	case domain.ColumnTypeFloat:
		return "REAL"
	case domain.ColumnTypeDouble:
		return "DOUBLE PRECISION"
	case domain.ColumnTypeBool:
		return "BOOLEAN"
	case domain.ColumnTypeTimestamp:
		return "TIMESTAMPTZ"
	case domain.ColumnTypeDate:
		return "DATE"
	case domain.ColumnTypeUUID:
		return "UUID"
	default:
		return "TEXT"
	}
}

func (t *PostgresTarget) TruncateTable(table string) error {
	_, err := t.db.Exec("TRUNCATE TABLE " + t.qualified(table))
	return err
}

func (t *PostgresTarget) DropTable(table string) error {
	_, err := t.db.Exec("DROP TABLE IF EXISTS " + t.qualified(table))
	return err
}

func (t *PostgresTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	perStmt := maxParams / len(columns)
	for start := 0; start < len(rows); start += perStmt {
		end := start + perStmt
		if end > len(rows) {
			end = len(rows)
		}
		query, args := InsertSQL(t.qualified(table), columns, rows[start:end])
		if _, err := t.db.Exec(query, args...); err != nil {
			return err
		}
	}
	return nil
}

// InsertSQL builds one multi-row INSERT with $n placeholders.
func InsertSQL(qualified string, columns []string, rows [][]interface{}) (string, []interface{}) {
	quotedCols := make([]string, len(columns))
	for i, col := range columns {
		quotedCols[i] = pq.QuoteIdentifier(col)
	}

	placeholders := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		rowPlaceholders := make([]string, len(columns))
		for j := range columns {
			rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(columns)+j+1)
			args = append(args, row[j])
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		qualified, strings.Join(quotedCols, ", "), strings.Join(placeholders, ", ")), args
}
