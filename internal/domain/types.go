package domain

import (
	"encoding/json"
	"time"
)

// Blueprint is the declarative form of a schema: an ordered list of
// variables, each fulfilled by one provider method per record.
type Blueprint struct {
	ID                   string               `json:"id" yaml:"id"`
	Name                 string               `json:"name" yaml:"name"`
	Version              string               `json:"version" yaml:"version"`
	Description          string               `json:"description" yaml:"description"`
	Seed                 *int64               `json:"seed,omitempty" yaml:"seed,omitempty"`
	Iterations           int                  `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	ExcludeFromUnnesting []string             `json:"exclude_from_unnesting,omitempty" yaml:"exclude_from_unnesting,omitempty"`
	Variables            []GenerationVariable `json:"variables" yaml:"variables"`
}

// GenerationVariable describes one field to generate.
type GenerationVariable struct {
	Name           string                 `json:"name" yaml:"name"`
	ProviderMethod string                 `json:"provider_method" yaml:"provider_method"`
	Kwargs         map[string]interface{} `json:"kwargs,omitempty" yaml:"kwargs,omitempty"`
}

type ColumnType string

const (
	ColumnTypeInt       ColumnType = "int"
	ColumnTypeBigInt    ColumnType = "bigint"
	ColumnTypeFloat     ColumnType = "float"
	ColumnTypeDouble    ColumnType = "double"
	ColumnTypeString    ColumnType = "string"
	ColumnTypeText      ColumnType = "text"
	ColumnTypeBool      ColumnType = "bool"
	ColumnTypeTimestamp ColumnType = "timestamp"
	ColumnTypeDate      ColumnType = "date"
	ColumnTypeUUID      ColumnType = "uuid"
)

// Column is a sink column derived from generated records.
type Column struct {
	Name     string     `json:"name" yaml:"name"`
	Type     ColumnType `json:"type" yaml:"type"`
	Nullable bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

type TargetConfig struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Kind     string            `json:"kind" yaml:"kind"`
	DSN      string            `json:"dsn" yaml:"dsn"`
	Schema   string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Database string            `json:"database,omitempty" yaml:"database,omitempty"`
	Table    string            `json:"table,omitempty" yaml:"table,omitempty"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

const (
	TargetKindSQLite        = "sqlite"
	TargetKindPostgres      = "postgres"
	TargetKindPGCopy        = "pgcopy"
	TargetKindElasticsearch = "elasticsearch"
	TargetKindRedis         = "redis"
	TargetKindCSV           = "csv"
	TargetKindJSONL         = "jsonl"
	TargetKindParquet       = "parquet"
)

type TargetCapabilities struct {
	CanCreate   bool `json:"can_create"`
	CanInsert   bool `json:"can_insert"`
	CanTruncate bool `json:"can_truncate"`
}

type TargetCheck struct {
	ID           string             `json:"id"`
	TargetID     string             `json:"target_id"`
	CheckedAt    time.Time          `json:"checked_at"`
	OK           bool               `json:"ok"`
	LatencyMS    int64              `json:"latency_ms"`
	ServerVer    string             `json:"server_version,omitempty"`
	Capabilities TargetCapabilities `json:"capabilities"`
	Error        string             `json:"error,omitempty"`
}

type Run struct {
	ID               string          `json:"id"`
	BlueprintID      string          `json:"blueprint_id"`
	BlueprintName    string          `json:"blueprint_name"`
	BlueprintVersion string          `json:"blueprint_version"`
	TargetID         string          `json:"target_id"`
	TargetName       string          `json:"target_name"`
	TargetKind       string          `json:"target_kind"`
	Table            string          `json:"table"`
	Seed             int64           `json:"seed"`
	Iterations       int             `json:"iterations"`
	Mode             string          `json:"mode"`
	ConfigHash       string          `json:"config_hash"`
	Status           RunStatus       `json:"status"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Stats            json.RawMessage `json:"stats,omitempty"`
	Error            string          `json:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunStats struct {
	RecordsGenerated int64    `json:"records_generated"`
	Batches          int      `json:"batches"`
	Columns          []Column `json:"columns"`
	DurationSeconds  float64  `json:"duration_seconds"`
}

type RunRequest struct {
	BlueprintID string        `json:"blueprint_id,omitempty"`
	Blueprint   *Blueprint    `json:"blueprint,omitempty"`
	TargetID    string        `json:"target_id,omitempty"`
	Target      *TargetConfig `json:"target,omitempty"`
	Table       string        `json:"table,omitempty"`
	// Database overrides the target's database for this run only.
	Database   string `json:"database,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
	Iterations *int   `json:"iterations,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

const (
	TableModeCreate   = "create"
	TableModeTruncate = "truncate"
	TableModeAppend   = "append"
)
