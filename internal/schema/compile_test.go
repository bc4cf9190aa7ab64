package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/registry"
)

const surveyYAML = `
id: survey
name: survey
variables:
  - name: id
    provider_method: uuid.uuid4
  - name: parent_school_importance
    provider_method: dependent_variables
    kwargs:
      variable_names: [parent, school_importance]
      options:
        - [true, {provider_method: random.truncnorm, kwargs: {a: -2.8, b: 1.2, loc: 7, scale: 2.5, round: true}}]
        - [false, {provider_method: random.truncnorm, kwargs: {a: -1.6, b: 2.4, loc: 4, scale: 2.5, round: true}}]
      weights: [0.3, 0.7]
  - name: colour
    provider_method: distribution.discrete_distribution
    kwargs:
      population: [red, green, blue]
      weights: [0.2, 0.3, 0.5]
      null_prop: 0.1
`

func loadSurvey(t *testing.T) *domain.Blueprint {
	t.Helper()
	var bp domain.Blueprint
	require.NoError(t, yaml.Unmarshal([]byte(surveyYAML), &bp))
	return &bp
}

func TestCompileSurveyBlueprint(t *testing.T) {
	bp := loadSurvey(t)
	c, err := Compile(NewField(registry.DefaultProviderRegistry(), 42), bp)
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid.uuid4", "multi_variable.dependent_variables", "distribution.discrete_distribution"}, c.Methods())

	recs, err := c.StatsSchema().Create(200, nil)
	require.NoError(t, err)
	require.Len(t, recs, 200)

	for _, rec := range recs {
		assert.Equal(t, []string{"id", "parent", "school_importance", "colour"}, rec.Keys())
		parent, _ := rec.Get("parent")
		score, _ := rec.Get("school_importance")
		s := score.(int64)
		if parent == true {
			assert.GreaterOrEqual(t, s, int64(0))
			assert.LessOrEqual(t, s, int64(10))
		} else {
			assert.Equal(t, false, parent)
			assert.GreaterOrEqual(t, s, int64(0))
			assert.LessOrEqual(t, s, int64(10))
		}
	}
}

func TestCompileExcludeKeepsNestedRecord(t *testing.T) {
	c, err := Compile(NewField(registry.DefaultProviderRegistry(), 1), loadSurvey(t))
	require.NoError(t, err)
	recs, err := c.StatsSchema().Create(1, []string{"parent_school_importance"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "parent_school_importance", "colour"}, recs[0].Keys())
	_, ok := recs[0].Values([]string{"parent_school_importance"})[0].(*domain.Record)
	assert.True(t, ok)
}

func TestSameSeedSameRecords(t *testing.T) {
	bp := loadSurvey(t)
	run := func() []*domain.Record {
		c, err := Compile(NewField(registry.DefaultProviderRegistry(), 7), bp)
		require.NoError(t, err)
		recs, err := c.StatsSchema().Create(50, nil)
		require.NoError(t, err)
		return recs
	}
	a, b := run(), run()
	for i := range a {
		assert.Equal(t, a[i].Map(), b[i].Map())
	}

	c, err := Compile(NewField(registry.DefaultProviderRegistry(), 8), bp)
	require.NoError(t, err)
	other, err := c.StatsSchema().Create(50, nil)
	require.NoError(t, err)
	differs := false
	for i := range a {
		if a[i].Map()["id"] != other[i].Map()["id"] {
			differs = true
		}
	}
	assert.True(t, differs)
}

func TestFakerSourceRepeatsForSameSeed(t *testing.T) {
	draw := func(seed int64) []interface{} {
		field := NewField(registry.DefaultProviderRegistry(), seed, WithFakerSource())
		var out []interface{}
		for i := 0; i < 20; i++ {
			for _, method := range []string{"faker.name", "faker.word"} {
				v, err := field.Call(method, nil)
				require.NoError(t, err)
				out = append(out, v)
			}
		}
		return out
	}

	first := draw(11)
	assert.Equal(t, first, draw(11))
	assert.NotEqual(t, first, draw(12))
}

func TestCompileFailsEarly(t *testing.T) {
	field := NewField(registry.DefaultProviderRegistry(), 1)

	_, err := Compile(field, &domain.Blueprint{Variables: []domain.GenerationVariable{
		{Name: "x", ProviderMethod: "nope.nothing"},
	}})
	assert.True(t, errors.Is(err, registry.ErrUnknownMethod))

	_, err = Compile(field, &domain.Blueprint{Variables: []domain.GenerationVariable{
		{Name: "x", ProviderMethod: "const.value", Kwargs: map[string]interface{}{
			"value": map[string]interface{}{"provider_method": "missing.method"},
		}},
	}})
	assert.True(t, errors.Is(err, registry.ErrUnknownMethod))

	_, err = Compile(field, &domain.Blueprint{Variables: []domain.GenerationVariable{
		{Name: "x", ProviderMethod: "distribution.discrete_distribution", Kwargs: map[string]interface{}{
			"population": []interface{}{"a"}, "weights": []interface{}{0.5},
		}},
	}})
	assert.Error(t, err)

	_, err = Compile(field, &domain.Blueprint{Variables: []domain.GenerationVariable{
		{Name: "x", ProviderMethod: "const.value", Kwargs: map[string]interface{}{"value": 1}},
		{Name: "x", ProviderMethod: "const.value", Kwargs: map[string]interface{}{"value": 2}},
	}})
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	_, err = Compile(field, &domain.Blueprint{})
	assert.Error(t, err)
}

func TestFieldCallDispatchesByName(t *testing.T) {
	field := NewField(registry.DefaultProviderRegistry(), 3)
	v, err := field.Call("discrete_distribution", map[string]interface{}{
		"population": []interface{}{"only"},
		"weights":    []interface{}{1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "only", v)

	_, err = field.Call("email", nil)
	assert.True(t, errors.Is(err, registry.ErrAmbiguousMethod))
}

func TestTimeSeriesFollowsRows(t *testing.T) {
	field := NewField(registry.DefaultProviderRegistry(), 3)
	c, err := Compile(field, &domain.Blueprint{Variables: []domain.GenerationVariable{
		{Name: "ts", ProviderMethod: "datetime.time_series", Kwargs: map[string]interface{}{
			"start": "2024-01-01T00:00:00Z", "step": "1d",
		}},
	}})
	require.NoError(t, err)

	seq, err := c.StatsSchema().Iterate(3, nil)
	require.NoError(t, err)
	days := []int{}
	for rec, err := range seq {
		require.NoError(t, err)
		ts, _ := rec.Get("ts")
		days = append(days, ts.(time.Time).Day())
	}
	assert.Equal(t, []int{1, 2, 3}, days)
}
