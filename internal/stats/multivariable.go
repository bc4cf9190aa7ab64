package stats

import (
	"fmt"

	"github.com/mmrzaf/sdstats/internal/domain"
)

type MultiVariable struct {
	*Provider
}

func NewMultiVariable(p *Provider) *MultiVariable {
	return &MultiVariable{Provider: p}
}

// DependentVariables draws one whole option tuple by weight and returns it
// keyed by names. Nulls are injected per element after the tuple is chosen,
// so the joint structure of the options is preserved.
func (m *MultiVariable) DependentVariables(names []string, options [][]interface{}, weights []float64, nullProps []float64, nullValues []interface{}) (*domain.Record, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no variable names", ErrLengthMismatch)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("duplicate variable name: %s", n)
		}
		seen[n] = true
	}
	if len(options) != len(weights) {
		return nil, fmt.Errorf("%w: %d options, %d weights", ErrLengthMismatch, len(options), len(weights))
	}
	for i, opt := range options {
		if len(opt) != len(names) {
			return nil, fmt.Errorf("%w: option %d has %d values for %d variables", ErrLengthMismatch, i, len(opt), len(names))
		}
	}
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	props, reps, err := broadcastNulls(len(names), nullProps, nullValues)
	if err != nil {
		return nil, err
	}

	chosen := options[m.pick(weights)]
	values, err := m.ReplaceMultiple(chosen, props, reps)
	if err != nil {
		return nil, err
	}
	return domain.RecordFrom(names, values), nil
}
