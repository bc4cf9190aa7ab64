package stats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscreteDegenerateWeights(t *testing.T) {
	d := NewDistribution(NewProvider(11))
	pop := []interface{}{"a", 2, 3.5, nil}

	for idx := range pop {
		w := make([]float64, len(pop))
		w[idx] = 1
		for i := 0; i < 25; i++ {
			v, err := d.Discrete(pop, w, 0, nil)
			require.NoError(t, err)
			assert.Equal(t, pop[idx], v)
		}
	}
}

func TestDiscreteValidation(t *testing.T) {
	d := NewDistribution(NewProvider(1))

	_, err := d.Discrete([]interface{}{1, 2}, []float64{1}, 0, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = d.Discrete(nil, nil, 0, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = d.Discrete([]interface{}{1, 2}, []float64{0.4, 0.4}, 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidWeights))
}

func TestDiscreteNullInjection(t *testing.T) {
	d := NewDistribution(NewProvider(1))
	v, err := d.Discrete([]interface{}{"a", "b"}, []float64{0.5, 0.5}, 1, "missing")
	require.NoError(t, err)
	assert.Equal(t, "missing", v)
}

func TestDiscreteFrequencies(t *testing.T) {
	d := NewDistribution(NewProvider(2024))
	counts := map[interface{}]int{}
	for i := 0; i < 20000; i++ {
		v, err := d.Discrete([]interface{}{"a", "b"}, []float64{0.2, 0.8}, 0, nil)
		require.NoError(t, err)
		counts[v]++
	}
	assert.InDelta(t, 4000, counts["a"], 400)
}

func TestGenericCallsFunction(t *testing.T) {
	d := NewDistribution(NewProvider(1))
	fn := func(params map[string]interface{}) (interface{}, error) {
		return params["value"], nil
	}

	v, err := d.Generic(fn, 0, nil, map[string]interface{}{"value": 12})
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = d.Generic(fn, 1, "null", map[string]interface{}{"value": 12})
	require.NoError(t, err)
	assert.Equal(t, "null", v)
}

func TestGenericPropagatesErrors(t *testing.T) {
	d := NewDistribution(NewProvider(1))
	boom := errors.New("boom")
	_, err := d.Generic(func(map[string]interface{}) (interface{}, error) { return nil, boom }, 0, nil, nil)
	assert.True(t, errors.Is(err, boom))

	_, err = d.Generic(nil, 0, nil, nil)
	assert.Error(t, err)
}
