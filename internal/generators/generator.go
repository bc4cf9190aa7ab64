package generators

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	xrand "golang.org/x/exp/rand"

	"github.com/mmrzaf/sdstats/internal/distributions"
	"github.com/mmrzaf/sdstats/internal/kwargs"
	"github.com/mmrzaf/sdstats/internal/stats"
)

// Generator is one provider method. Validate runs once when a blueprint is
// compiled; Generate runs per record with every nested argument resolved.
type Generator interface {
	Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error)
	Validate(params map[string]interface{}) error
}

// GeneratorContext carries the per-schema random state shared by all
// generators of one field.
type GeneratorContext struct {
	RowIndex int64
	Rand     *rand.Rand
	Source   xrand.Source
	Stats    *stats.Provider
	Faker    *gofakeit.Faker
	Now      time.Time
}

func NewGeneratorContext(p *stats.Provider, f *gofakeit.Faker) *GeneratorContext {
	return &GeneratorContext{
		Rand:   p.Rand(),
		Source: distributions.NewSource(p.Rand()),
		Stats:  p,
		Faker:  f,
		Now:    time.Now(),
	}
}

// Deferred stands in for a nested provider call whose value is only known
// at generation time.
type Deferred struct {
	Method string
}

// Static returns params without the keys whose values depend on a Deferred.
func Static(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		if !containsDeferred(v) {
			out[k] = v
		}
	}
	return out
}

func containsDeferred(v interface{}) bool {
	switch val := v.(type) {
	case Deferred, *Deferred:
		return true
	case []interface{}:
		for _, item := range val {
			if containsDeferred(item) {
				return true
			}
		}
	case map[string]interface{}:
		for _, item := range val {
			if containsDeferred(item) {
				return true
			}
		}
	}
	return false
}

// validateWith checks that required keys are present, then runs check on
// the static view. When a required argument is deferred the remaining
// checks happen at generation time.
func validateWith(name string, params map[string]interface{}, required []string, check func(map[string]interface{}) error) error {
	for _, k := range required {
		if !kwargs.Has(params, k) {
			return fmt.Errorf("%s requires '%s' param", name, k)
		}
	}
	static := Static(params)
	for _, k := range required {
		if _, ok := static[k]; !ok {
			return nil
		}
	}
	if check == nil {
		return nil
	}
	if err := check(static); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

type nulls struct {
	prop  float64
	value interface{}
}

func parseNulls(params map[string]interface{}) (nulls, error) {
	p, err := kwargs.Float(params, "null_prop", 0)
	if err != nil {
		return nulls{}, err
	}
	if p < 0 || p > 1 {
		return nulls{}, fmt.Errorf("'null_prop' must lie in [0, 1], got %v", p)
	}
	return nulls{prop: p, value: params["null_value"]}, nil
}
