package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	r := NewRecord()
	r.Set("b", 1)
	r.Set("a", 2)
	r.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, []interface{}{2, nil}, r.Values([]string{"a", "missing"}))
}

func TestRecordMarshalJSONOrdered(t *testing.T) {
	r := RecordFrom([]string{"z", "a"}, []interface{}{"x", nil})
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"x","a":null}`, string(data))
}

func TestInferColumnType(t *testing.T) {
	assert.Equal(t, ColumnTypeInt, InferColumnType(3))
	assert.Equal(t, ColumnTypeBigInt, InferColumnType(int64(3)))
	assert.Equal(t, ColumnTypeDouble, InferColumnType(1.5))
	assert.Equal(t, ColumnTypeBool, InferColumnType(true))
	assert.Equal(t, ColumnTypeTimestamp, InferColumnType(time.Now()))
	assert.Equal(t, ColumnTypeString, InferColumnType("abc"))
	assert.Equal(t, ColumnTypeText, InferColumnType(nil))
}

func TestWidenColumnType(t *testing.T) {
	assert.Equal(t, ColumnTypeInt, WidenColumnType(ColumnTypeInt, ColumnTypeInt))
	assert.Equal(t, ColumnTypeBigInt, WidenColumnType(ColumnTypeInt, ColumnTypeBigInt))
	assert.Equal(t, ColumnTypeDouble, WidenColumnType(ColumnTypeBigInt, ColumnTypeFloat))
	assert.Equal(t, ColumnTypeDouble, WidenColumnType(ColumnTypeDouble, ColumnTypeInt))
	assert.Equal(t, ColumnTypeText, WidenColumnType(ColumnTypeString, ColumnTypeText))
	assert.Equal(t, ColumnTypeText, WidenColumnType(ColumnTypeInt, ColumnTypeString))
	assert.Equal(t, ColumnTypeText, WidenColumnType(ColumnTypeDate, ColumnTypeTimestamp))
}
