// Package kwargs coerces loosely typed keyword arguments, as decoded from
// YAML or JSON blueprints, into the concrete types provider methods need.
package kwargs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrType = errors.New("invalid argument type")

func ToFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func ToInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint32:
		return int64(val), true
	case float64:
		// 2^63 is exactly representable; anything at or past it overflows.
		if val != math.Trunc(val) || val < math.MinInt64 || val >= math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case json.Number:
		i, err := val.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func Has(params map[string]interface{}, key string) bool {
	_, ok := params[key]
	return ok
}

func Float(params map[string]interface{}, key string, def float64) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	f, ok := ToFloat64(raw)
	if !ok {
		return 0, fmt.Errorf("%w: '%s' must be a number, got %T", ErrType, key, raw)
	}
	return f, nil
}

func Int(params map[string]interface{}, key string, def int64) (int64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	i, ok := ToInt64(raw)
	if !ok {
		return 0, fmt.Errorf("%w: '%s' must be an integer, got %T", ErrType, key, raw)
	}
	return i, nil
}

func String(params map[string]interface{}, key string, def string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: '%s' must be a string, got %T", ErrType, key, raw)
	}
	return s, nil
}

func Bool(params map[string]interface{}, key string, def bool) (bool, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%w: '%s' must be a bool, got %T", ErrType, key, raw)
	}
	return b, nil
}

// List returns the list stored under key. A missing key yields (nil, false, nil).
func List(params map[string]interface{}, key string) ([]interface{}, bool, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	l, err := AsList(raw)
	if err != nil {
		return nil, true, fmt.Errorf("'%s': %w", key, err)
	}
	return l, true, nil
}

// AsList accepts []interface{} and the common typed slices.
func AsList(raw interface{}) ([]interface{}, error) {
	switch val := raw.(type) {
	case []interface{}:
		return val, nil
	case []string:
		out := make([]interface{}, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	case []float64:
		out := make([]interface{}, len(val))
		for i, f := range val {
			out[i] = f
		}
		return out, nil
	case []int:
		out := make([]interface{}, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrType, raw)
	}
}

// Floats reads a list of numbers. A scalar number is returned as a
// one-element slice so callers can broadcast it.
func Floats(params map[string]interface{}, key string) ([]float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}
	if f, ok := ToFloat64(raw); ok {
		return []float64{f}, nil
	}
	l, err := AsList(raw)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", key, err)
	}
	out := make([]float64, len(l))
	for i, v := range l {
		f, ok := ToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'[%d] must be a number, got %T", ErrType, key, i, v)
		}
		out[i] = f
	}
	return out, nil
}

func Strings(params map[string]interface{}, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}
	l, err := AsList(raw)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", key, err)
	}
	out := make([]string, len(l))
	for i, v := range l {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'[%d] must be a string, got %T", ErrType, key, i, v)
		}
		out[i] = s
	}
	return out, nil
}

// Without copies params minus the given keys.
func Without(params map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
