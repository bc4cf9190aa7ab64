package generators

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/stats"
)

func newCtx(seed int64) *GeneratorContext {
	return NewGeneratorContext(stats.NewProvider(seed), NewFaker(seed))
}

func TestDiscreteDistributionGenerator(t *testing.T) {
	g := &DiscreteDistributionGenerator{}
	params := map[string]interface{}{
		"population": []interface{}{"a", "b", "c"},
		"weights":    []interface{}{0, 1, 0},
	}
	require.NoError(t, g.Validate(params))

	ctx := newCtx(1)
	for i := 0; i < 20; i++ {
		v, err := g.Generate(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "b", v)
	}

	bad := map[string]interface{}{"population": []interface{}{"a"}, "weights": []interface{}{0.5, 0.5}}
	assert.True(t, errors.Is(g.Validate(bad), stats.ErrLengthMismatch))
	assert.Error(t, g.Validate(map[string]interface{}{"population": []interface{}{"a"}}))
}

func TestGenericDistributionGenerator(t *testing.T) {
	g := &GenericDistributionGenerator{}
	params := map[string]interface{}{
		"distribution": "poisson",
		"lam":          3,
		"round":        true,
	}
	require.NoError(t, g.Validate(params))
	v, err := g.Generate(newCtx(2), params)
	require.NoError(t, err)
	assert.IsType(t, int64(0), v)

	nulled, err := g.Generate(newCtx(2), map[string]interface{}{
		"distribution": "normal",
		"null_prop":    1,
		"null_value":   "n/a",
	})
	require.NoError(t, err)
	assert.Equal(t, "n/a", nulled)

	assert.Error(t, g.Validate(map[string]interface{}{"distribution": "nope"}))
	assert.Error(t, g.Validate(map[string]interface{}{"distribution": "normal", "null_prop": 2}))
}

func TestDependentVariablesGenerator(t *testing.T) {
	g := &DependentVariablesGenerator{}
	params := map[string]interface{}{
		"variable_names": []interface{}{"response", "count"},
		"options":        []interface{}{[]interface{}{"Yes", 123}, []interface{}{"No", nil}},
		"weights":        []interface{}{0, 1},
	}
	require.NoError(t, g.Validate(params))

	v, err := g.Generate(newCtx(3), params)
	require.NoError(t, err)
	rec, ok := v.(*domain.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"response", "count"}, rec.Keys())
	assert.Equal(t, map[string]interface{}{"response": "No", "count": nil}, rec.Map())

	params["null_props"] = 1
	params["null_values"] = "missing"
	v, err = g.Generate(newCtx(3), params)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"response": "missing", "count": "missing"}, v.(*domain.Record).Map())

	bad := map[string]interface{}{
		"variable_names": []interface{}{"a", "b"},
		"options":        []interface{}{[]interface{}{1}},
		"weights":        []interface{}{1},
	}
	assert.True(t, errors.Is(g.Validate(bad), stats.ErrLengthMismatch))
}

func TestGenerateTimeGenerator(t *testing.T) {
	g := &GenerateTimeGenerator{}
	params := map[string]interface{}{
		"start":         "20/10/1985",
		"end":           "20/10/1985",
		"input_format":  "%d/%m/%Y",
		"output_type":   "string",
		"output_format": "%Y-%m-%d",
	}
	require.NoError(t, g.Validate(params))
	v, err := g.Generate(newCtx(4), params)
	require.NoError(t, err)
	assert.Equal(t, "1985-10-20", v)

	params["end"] = "22/10/1985"
	params["distribution"] = "constant"
	params["value"] = 0.5
	v, err = g.Generate(newCtx(4), params)
	require.NoError(t, err)
	assert.Equal(t, "1985-10-21", v)

	params["value"] = 3.0
	_, err = g.Generate(newCtx(4), params)
	assert.True(t, errors.Is(err, stats.ErrProportionOutOfRange))

	assert.True(t, errors.Is(g.Validate(map[string]interface{}{
		"start": "2020-01-01", "end": "2020-02-01", "output_type": "epoch",
	}), stats.ErrUnknownOutputType))
	assert.Error(t, g.Validate(map[string]interface{}{"start": "garbage", "end": "2020-01-01"}))
}

func TestChoiceGeneratorRelativeWeights(t *testing.T) {
	g := &ChoiceGenerator{}
	params := map[string]interface{}{
		"items":   []interface{}{"x", "y"},
		"weights": []interface{}{0, 5},
	}
	require.NoError(t, g.Validate(params))
	ctx := newCtx(5)
	for i := 0; i < 20; i++ {
		v, err := g.Generate(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "y", v)
	}
	assert.Error(t, g.Validate(map[string]interface{}{"items": []interface{}{}}))
	assert.Error(t, g.Validate(map[string]interface{}{"items": []interface{}{"a"}, "weights": []interface{}{0}}))
}

func TestNestedArgumentsDeferValidation(t *testing.T) {
	g := &DependentVariablesGenerator{}
	params := map[string]interface{}{
		"variable_names": []interface{}{"parent", "score"},
		"options":        []interface{}{[]interface{}{true, Deferred{Method: "random.truncnorm"}}},
		"weights":        []interface{}{1},
	}
	assert.NoError(t, g.Validate(params))
}

func TestRandomGenerators(t *testing.T) {
	ctx := newCtx(6)

	v, err := (&UniformIntGenerator{}).Generate(ctx, map[string]interface{}{"min": 1, "max": 3})
	require.NoError(t, err)
	assert.Contains(t, []int64{1, 2}, v)

	f, err := (&UniformFloatGenerator{}).Generate(ctx, map[string]interface{}{"min": 2.0, "max": 4.0})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, f.(float64), 2.0)
	assert.Less(t, f.(float64), 4.0)

	tn, err := (&TruncNormGenerator{}).Generate(ctx, map[string]interface{}{"a": -1.6, "b": 2.4, "loc": 4, "scale": 2.5, "round": true})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, tn.(int64), int64(0))
	assert.LessOrEqual(t, tn.(int64), int64(10))

	code, err := (&CustomCodeGenerator{}).Generate(ctx, map[string]interface{}{"mask": "@@-###"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{2}-[0-9]{3}$`), code)

	assert.Error(t, (&UniformIntGenerator{}).Validate(map[string]interface{}{"min": 3, "max": 3}))
}

func TestUUIDRepeatsUnderSeed(t *testing.T) {
	a, err := (&UUID4Generator{}).Generate(newCtx(7), nil)
	require.NoError(t, err)
	b, err := (&UUID4Generator{}).Generate(newCtx(7), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, a)
}

func TestTimeSeriesUsesRowIndex(t *testing.T) {
	ctx := newCtx(8)
	ctx.RowIndex = 3
	v, err := (&TimeSeriesGenerator{}).Generate(ctx, map[string]interface{}{"start": "2024-01-01T00:00:00Z", "step": "1h"})
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC).Equal(v.(time.Time)))
}

func TestFakeitIsSeeded(t *testing.T) {
	person := personMethods()
	a, err := person["full_name"].Generate(newCtx(9), nil)
	require.NoError(t, err)
	b, err := person["full_name"].Generate(newCtx(9), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestProvidersAreNamespaced(t *testing.T) {
	p := Providers()
	assert.Contains(t, p["multi_variable"], "dependent_variables")
	assert.Contains(t, p["distribution"], "discrete_distribution")
	assert.Contains(t, p["time"], "generate_time")
}
