// Package schema turns provider methods into records: a Field dispatches
// method names to generators, and a StatsSchema runs a record function
// repeatedly and flattens its nested results.
package schema

import (
	"fmt"
	"time"

	"github.com/mmrzaf/sdstats/internal/generators"
	"github.com/mmrzaf/sdstats/internal/registry"
	"github.com/mmrzaf/sdstats/internal/stats"
)

// Field owns the random state for one schema. All methods called through
// it share a single stats stream and a single faker seeded from Seed.
type Field struct {
	registry *registry.ProviderRegistry
	seed     int64
	ctx      *generators.GeneratorContext
}

type Option func(*Field)

// WithFakerSource seeds the faker package's shared source from the field
// seed so faker.* methods repeat as well. The source is process-wide: the
// most recently built field owns it, and fields drawing faker.* values
// concurrently or interleaved do not repeat individually.
func WithFakerSource() Option {
	return func(f *Field) {
		generators.SeedFakerSource(f.seed)
	}
}

// WithNow fixes the instant relative times ("-30d") are measured from.
func WithNow(now time.Time) Option {
	return func(f *Field) {
		f.ctx.Now = now
	}
}

func NewField(reg *registry.ProviderRegistry, seed int64, opts ...Option) *Field {
	f := &Field{
		registry: reg,
		seed:     seed,
		ctx:      generators.NewGeneratorContext(stats.NewProvider(seed), generators.NewFaker(seed)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) Seed() int64 { return f.seed }

func (f *Field) Stats() *stats.Provider { return f.ctx.Stats }

func (f *Field) setRow(row int) { f.ctx.RowIndex = int64(row) }

// Call resolves method and draws one value from it.
func (f *Field) Call(method string, params map[string]interface{}) (interface{}, error) {
	m, err := f.Bind(method)
	if err != nil {
		return nil, err
	}
	return m.Call(params)
}

// Bind resolves method once so repeated calls skip the lookup.
func (f *Field) Bind(method string) (*Method, error) {
	key, gen, err := f.registry.Resolve(method)
	if err != nil {
		return nil, err
	}
	return &Method{Name: key, gen: gen, field: f}, nil
}

// Method is a provider method bound to a Field.
type Method struct {
	Name  string
	gen   generators.Generator
	field *Field
}

func (m *Method) Validate(params map[string]interface{}) error {
	return m.gen.Validate(params)
}

func (m *Method) Call(params map[string]interface{}) (interface{}, error) {
	v, err := m.gen.Generate(m.field.ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return v, nil
}
