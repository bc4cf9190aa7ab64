package redislist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
)

func setupTarget(t *testing.T) (*RedisTarget, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewRedisTarget(mr.Addr(), "sdstats:"), mr
}

func TestRedisTarget_InsertAndTruncate(t *testing.T) {
	tgt, mr := setupTarget(t)
	require.NoError(t, tgt.Connect())
	defer tgt.Close()

	cols := []domain.Column{{Name: "age", Type: domain.ColumnTypeBigInt, Nullable: true}}
	require.NoError(t, tgt.CreateTableIfNotExists("survey", cols))
	require.True(t, mr.Exists("sdstats:survey:columns"))

	rows := [][]interface{}{{int64(31), "yes"}, {nil, "no"}}
	require.NoError(t, tgt.InsertBatch("survey", []string{"age", "smoker"}, rows))

	items, err := mr.List("sdstats:survey")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, `{"age":31,"smoker":"yes"}`, items[0])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(items[1]), &second))
	assert.Nil(t, second["age"])

	require.NoError(t, tgt.TruncateTable("survey"))
	assert.False(t, mr.Exists("sdstats:survey"))
}

func TestRedisTarget_CreateKeepsExistingColumns(t *testing.T) {
	tgt, mr := setupTarget(t)
	require.NoError(t, tgt.Connect())
	defer tgt.Close()

	require.NoError(t, mr.Set("sdstats:survey:columns", "[]"))
	require.NoError(t, tgt.CreateTableIfNotExists("survey", []domain.Column{{Name: "x", Type: domain.ColumnTypeText}}))
	got, err := mr.Get("sdstats:survey:columns")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestRedisTarget_WithClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tgt := NewRedisTargetWithClient(client, "")
	require.NoError(t, tgt.Connect())
	require.NoError(t, tgt.InsertBatch("t", []string{"v"}, [][]interface{}{{1.5}}))

	n, err := client.LLen(context.Background(), "t").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, tgt.Close())
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "redis://localhost:6379/0", normalizeURL(""))
	assert.Equal(t, "redis://cache:6379", normalizeURL("cache:6379"))
	assert.Equal(t, "rediss://cache:6380/1", normalizeURL("rediss://cache:6380/1"))
}
