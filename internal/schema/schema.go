package schema

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/mmrzaf/sdstats/internal/domain"
)

var (
	ErrInvalidIterations = errors.New("invalid iterations")
	ErrDuplicateKey      = errors.New("duplicate key")
)

// SchemaFunc builds one raw record. row counts from 0 within each
// Create or Iterate call.
type SchemaFunc func(row int) (*domain.Record, error)

type StatsSchema struct {
	schema SchemaFunc
}

func New(fn SchemaFunc) *StatsSchema {
	return &StatsSchema{schema: fn}
}

// Create runs the schema iterations times and returns every flattened record.
func (s *StatsSchema) Create(iterations int, exclude []string) ([]*domain.Record, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidIterations, iterations)
	}
	ex := toSet(exclude)
	out := make([]*domain.Record, 0, iterations)
	for row := 0; row < iterations; row++ {
		rec, err := s.fulfil(row, ex)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Iterate returns a lazy sequence of iterations records. Each range over it
// starts again from row 0. A failing row is yielded with its error and ends
// the sequence.
func (s *StatsSchema) Iterate(iterations int, exclude []string) (iter.Seq2[*domain.Record, error], error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidIterations, iterations)
	}
	ex := toSet(exclude)
	return func(yield func(*domain.Record, error) bool) {
		for row := 0; row < iterations; row++ {
			rec, err := s.fulfil(row, ex)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}, nil
}

func (s *StatsSchema) fulfil(row int, exclude map[string]bool) (*domain.Record, error) {
	raw, err := s.schema(row)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}
	rec, err := unnest(raw, exclude)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}
	return rec, nil
}

// Unnest lifts the entries of nested records and maps one level up into
// the parent. Keys listed in exclude are kept as they are. A key produced
// twice fails with ErrDuplicateKey.
func Unnest(rec *domain.Record, exclude []string) (*domain.Record, error) {
	return unnest(rec, toSet(exclude))
}

func unnest(rec *domain.Record, exclude map[string]bool) (*domain.Record, error) {
	out := domain.NewRecord()
	if rec == nil {
		return out, nil
	}
	put := func(k string, v interface{}) error {
		if out.Has(k) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, k)
		}
		out.Set(k, v)
		return nil
	}

	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		if exclude[k] {
			if err := put(k, v); err != nil {
				return nil, err
			}
			continue
		}
		switch nested := v.(type) {
		case *domain.Record:
			if nested == nil {
				if err := put(k, nil); err != nil {
					return nil, err
				}
				continue
			}
			for _, nk := range nested.Keys() {
				nv, _ := nested.Get(nk)
				if err := put(nk, nv); err != nil {
					return nil, err
				}
			}
		case map[string]interface{}:
			keys := make([]string, 0, len(nested))
			for nk := range nested {
				keys = append(keys, nk)
			}
			sort.Strings(keys)
			for _, nk := range keys {
				if err := put(nk, nested[nk]); err != nil {
					return nil, err
				}
			}
		default:
			if err := put(k, v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
