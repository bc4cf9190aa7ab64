package redislist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmrzaf/sdstats/internal/domain"
)

// RedisTarget appends each record as a JSON document to a Redis list named
// after the table. The inferred columns are kept under "<table>:columns".
type RedisTarget struct {
	dsn     string
	prefix  string
	timeout time.Duration
	client  *redis.Client
}

func NewRedisTarget(dsn, prefix string) *RedisTarget {
	return &RedisTarget{dsn: dsn, prefix: prefix, timeout: 30 * time.Second}
}

// NewRedisTargetWithClient wraps an existing client; Connect only pings it.
func NewRedisTargetWithClient(client *redis.Client, prefix string) *RedisTarget {
	return &RedisTarget{client: client, prefix: prefix, timeout: 30 * time.Second}
}

func (t *RedisTarget) Connect() error {
	if t.client == nil {
		opts, err := redis.ParseURL(normalizeURL(t.dsn))
		if err != nil {
			return fmt.Errorf("parse redis dsn: %w", err)
		}
		t.client = redis.NewClient(opts)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.client.Ping(ctx).Err()
}

func (t *RedisTarget) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}

func (t *RedisTarget) ServerVersion() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	info, err := t.client.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "redis_version:"); ok {
			return v, nil
		}
	}
	return "", nil
}

func (t *RedisTarget) ListKey(table string) string { return t.prefix + table }

func (t *RedisTarget) columnsKey(table string) string { return t.prefix + table + ":columns" }

// CreateTableIfNotExists records the column layout unless one is already stored.
func (t *RedisTarget) CreateTableIfNotExists(table string, columns []domain.Column) error {
	payload, err := json.Marshal(columns)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	return t.client.SetNX(ctx, t.columnsKey(table), payload, 0).Err()
}

func (t *RedisTarget) TruncateTable(table string) error {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	return t.client.Del(ctx, t.ListKey(table)).Err()
}

func (t *RedisTarget) DropTable(table string) error {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	return t.client.Del(ctx, t.ListKey(table), t.columnsKey(table)).Err()
}

func (t *RedisTarget) InsertBatch(table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		b, err := json.Marshal(domain.RecordFrom(columns, row))
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		docs[i] = b
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	return t.client.RPush(ctx, t.ListKey(table), docs...).Err()
}

func normalizeURL(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "redis://localhost:6379/0"
	}
	if strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://") {
		return dsn
	}
	return "redis://" + dsn
}
