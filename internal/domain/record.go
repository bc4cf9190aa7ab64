package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one generated row: field name to value, in insertion order.
type Record struct {
	keys   []string
	values map[string]interface{}
}

func NewRecord() *Record {
	return &Record{values: make(map[string]interface{})}
}

// RecordFrom builds a record from parallel key/value slices.
func RecordFrom(keys []string, values []interface{}) *Record {
	r := NewRecord()
	for i, k := range keys {
		r.Set(k, values[i])
	}
	return r
}

// Set stores v under k. Re-setting an existing key keeps its position.
func (r *Record) Set(k string, v interface{}) {
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

func (r *Record) Get(k string) (interface{}, bool) {
	v, ok := r.values[k]
	return v, ok
}

func (r *Record) Has(k string) bool {
	_, ok := r.values[k]
	return ok
}

func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

// Map returns a plain copy of the record's values.
func (r *Record) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Values returns the values for cols in order; absent columns are nil.
func (r *Record) Values(cols []string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = r.values[c]
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WidenColumnType returns a column type able to hold values of both a and b.
// Mixed numerics widen to double; any other disagreement widens to text.
func WidenColumnType(a, b ColumnType) ColumnType {
	if a == b {
		return a
	}
	rank := map[ColumnType]int{ColumnTypeInt: 1, ColumnTypeBigInt: 2, ColumnTypeFloat: 3, ColumnTypeDouble: 4}
	ra, rb := rank[a], rank[b]
	switch {
	case ra == 0 || rb == 0:
		return ColumnTypeText
	case ra <= 2 && rb <= 2:
		return ColumnTypeBigInt
	default:
		return ColumnTypeDouble
	}
}

// InferColumnType maps a generated Go value to a sink column type.
// Unknown or nil values map to text.
func InferColumnType(v interface{}) ColumnType {
	switch val := v.(type) {
	case int, int8, int16, int32, uint8, uint16:
		return ColumnTypeInt
	case int64, uint32, uint64, uint:
		return ColumnTypeBigInt
	case float32:
		return ColumnTypeFloat
	case float64:
		return ColumnTypeDouble
	case bool:
		return ColumnTypeBool
	case time.Time:
		return ColumnTypeTimestamp
	case uuid.UUID:
		return ColumnTypeUUID
	case string:
		if len(val) > 255 {
			return ColumnTypeText
		}
		return ColumnTypeString
	default:
		return ColumnTypeText
	}
}
