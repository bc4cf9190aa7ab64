package stats

import (
	"errors"
	"fmt"
)

// SampleFunc produces one sample from keyword parameters.
type SampleFunc func(params map[string]interface{}) (interface{}, error)

type Distribution struct {
	*Provider
}

func NewDistribution(p *Provider) *Distribution {
	return &Distribution{Provider: p}
}

// Generic draws one value from fn and applies null injection.
func (d *Distribution) Generic(fn SampleFunc, nullProp float64, nullValue interface{}, params map[string]interface{}) (interface{}, error) {
	if fn == nil {
		return nil, errors.New("distribution function is nil")
	}
	v, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("sample distribution: %w", err)
	}
	return d.Replace(v, nullProp, nullValue), nil
}

// Discrete draws one member of population according to weights and applies
// null injection.
func (d *Distribution) Discrete(population []interface{}, weights []float64, nullProp float64, nullValue interface{}) (interface{}, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: population is empty", ErrLengthMismatch)
	}
	if len(population) != len(weights) {
		return nil, fmt.Errorf("%w: %d population members, %d weights", ErrLengthMismatch, len(population), len(weights))
	}
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	v := population[d.pick(weights)]
	return d.Replace(v, nullProp, nullValue), nil
}
