package generators

import (
	"fmt"

	"github.com/mmrzaf/sdstats/internal/kwargs"
	"github.com/mmrzaf/sdstats/internal/stats"
)

type DependentVariablesGenerator struct{}

type dependentArgs struct {
	names      []string
	options    [][]interface{}
	weights    []float64
	nullProps  []float64
	nullValues []interface{}
}

func parseDependent(params map[string]interface{}) (dependentArgs, error) {
	names, err := kwargs.Strings(params, "variable_names")
	if err != nil {
		return dependentArgs{}, err
	}
	rawOptions, _, err := kwargs.List(params, "options")
	if err != nil {
		return dependentArgs{}, err
	}
	options := make([][]interface{}, len(rawOptions))
	for i, raw := range rawOptions {
		opt, err := kwargs.AsList(raw)
		if err != nil {
			return dependentArgs{}, fmt.Errorf("'options'[%d]: %w", i, err)
		}
		if len(opt) != len(names) {
			return dependentArgs{}, fmt.Errorf("%w: option %d has %d values for %d variables", stats.ErrLengthMismatch, i, len(opt), len(names))
		}
		options[i] = opt
	}
	weights, err := kwargs.Floats(params, "weights")
	if err != nil {
		return dependentArgs{}, err
	}
	if len(weights) != len(options) {
		return dependentArgs{}, fmt.Errorf("%w: %d options, %d weights", stats.ErrLengthMismatch, len(options), len(weights))
	}
	if err := stats.ValidateWeights(weights); err != nil {
		return dependentArgs{}, err
	}
	nullProps, err := kwargs.Floats(params, "null_props")
	if err != nil {
		return dependentArgs{}, err
	}
	for i, p := range nullProps {
		if p < 0 || p > 1 {
			return dependentArgs{}, fmt.Errorf("'null_props'[%d] must lie in [0, 1], got %v", i, p)
		}
	}
	var nullValues []interface{}
	if raw, ok := params["null_values"]; ok {
		if l, err := kwargs.AsList(raw); err == nil {
			nullValues = l
		} else {
			nullValues = []interface{}{raw}
		}
	}
	return dependentArgs{names: names, options: options, weights: weights, nullProps: nullProps, nullValues: nullValues}, nil
}

func (g *DependentVariablesGenerator) Validate(params map[string]interface{}) error {
	return validateWith("dependent_variables", params, []string{"variable_names", "options", "weights"}, func(p map[string]interface{}) error {
		_, err := parseDependent(p)
		return err
	})
}

// Generate returns a *domain.Record keyed by variable_names; the schema
// flattens it into the parent record.
func (g *DependentVariablesGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	args, err := parseDependent(params)
	if err != nil {
		return nil, err
	}
	return stats.NewMultiVariable(ctx.Stats).DependentVariables(args.names, args.options, args.weights, args.nullProps, args.nullValues)
}
