package generators

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmrzaf/sdstats/internal/distributions"
	"github.com/mmrzaf/sdstats/internal/kwargs"
	"github.com/mmrzaf/sdstats/internal/stats"
)

var genericReserved = []string{"distribution", "null_prop", "null_value", "round"}

type GenericDistributionGenerator struct{}

type genericArgs struct {
	dist   string
	params map[string]interface{}
	round  bool
	nulls  nulls
}

func parseGeneric(params map[string]interface{}) (genericArgs, error) {
	name, err := kwargs.String(params, "distribution", "")
	if err != nil {
		return genericArgs{}, err
	}
	if name == "" {
		return genericArgs{}, errors.New("'distribution' cannot be empty")
	}
	n, err := parseNulls(params)
	if err != nil {
		return genericArgs{}, err
	}
	round, err := kwargs.Bool(params, "round", false)
	if err != nil {
		return genericArgs{}, err
	}
	dp := kwargs.Without(params, genericReserved...)
	if err := distributions.Validate(name, dp); err != nil {
		return genericArgs{}, err
	}
	return genericArgs{dist: name, params: dp, round: round, nulls: n}, nil
}

func (g *GenericDistributionGenerator) Validate(params map[string]interface{}) error {
	return validateWith("generic_distribution", params, []string{"distribution"}, func(p map[string]interface{}) error {
		_, err := parseGeneric(p)
		return err
	})
}

func (g *GenericDistributionGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	args, err := parseGeneric(params)
	if err != nil {
		return nil, err
	}
	sample := func(p map[string]interface{}) (interface{}, error) {
		v, err := distributions.Sample(args.dist, p, ctx.Source)
		if err != nil {
			return nil, err
		}
		if args.round {
			return int64(math.Round(v)), nil
		}
		return v, nil
	}
	return stats.NewDistribution(ctx.Stats).Generic(sample, args.nulls.prop, args.nulls.value, args.params)
}

type DiscreteDistributionGenerator struct{}

type discreteArgs struct {
	population []interface{}
	weights    []float64
	nulls      nulls
}

func parseDiscrete(params map[string]interface{}) (discreteArgs, error) {
	pop, _, err := kwargs.List(params, "population")
	if err != nil {
		return discreteArgs{}, err
	}
	weights, err := kwargs.Floats(params, "weights")
	if err != nil {
		return discreteArgs{}, err
	}
	if len(pop) != len(weights) {
		return discreteArgs{}, fmt.Errorf("%w: %d population members, %d weights", stats.ErrLengthMismatch, len(pop), len(weights))
	}
	if err := stats.ValidateWeights(weights); err != nil {
		return discreteArgs{}, err
	}
	n, err := parseNulls(params)
	if err != nil {
		return discreteArgs{}, err
	}
	return discreteArgs{population: pop, weights: weights, nulls: n}, nil
}

func (g *DiscreteDistributionGenerator) Validate(params map[string]interface{}) error {
	return validateWith("discrete_distribution", params, []string{"population", "weights"}, func(p map[string]interface{}) error {
		_, err := parseDiscrete(p)
		return err
	})
}

func (g *DiscreteDistributionGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	args, err := parseDiscrete(params)
	if err != nil {
		return nil, err
	}
	return stats.NewDistribution(ctx.Stats).Discrete(args.population, args.weights, args.nulls.prop, args.nulls.value)
}
