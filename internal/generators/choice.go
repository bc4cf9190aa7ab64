package generators

import (
	"errors"
	"fmt"

	"github.com/mmrzaf/sdstats/internal/kwargs"
)

// ChoiceGenerator picks one of 'items'. Optional 'weights' are relative and
// need not sum to one.
type ChoiceGenerator struct{}

type choiceArgs struct {
	items   []interface{}
	weights []float64
	total   float64
}

func parseChoice(params map[string]interface{}) (choiceArgs, error) {
	items, _, err := kwargs.List(params, "items")
	if err != nil {
		return choiceArgs{}, err
	}
	if len(items) == 0 {
		return choiceArgs{}, errors.New("'items' cannot be empty")
	}
	if !kwargs.Has(params, "weights") {
		return choiceArgs{items: items}, nil
	}

	weights, err := kwargs.Floats(params, "weights")
	if err != nil {
		return choiceArgs{}, err
	}
	if len(weights) != len(items) {
		return choiceArgs{}, errors.New("'weights' and 'items' must have the same length")
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return choiceArgs{}, fmt.Errorf("negative weight: %v", w)
		}
		total += w
	}
	if total == 0 {
		return choiceArgs{}, errors.New("total weight is zero")
	}
	return choiceArgs{items: items, weights: weights, total: total}, nil
}

func (g *ChoiceGenerator) Validate(params map[string]interface{}) error {
	return validateWith("choice", params, []string{"items"}, func(p map[string]interface{}) error {
		_, err := parseChoice(p)
		return err
	})
}

func (g *ChoiceGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	args, err := parseChoice(params)
	if err != nil {
		return nil, err
	}
	if args.weights == nil {
		return args.items[ctx.Rand.Intn(len(args.items))], nil
	}

	r := ctx.Rand.Float64() * args.total
	cumWeight := 0.0
	for i, w := range args.weights {
		cumWeight += w
		if r < cumWeight {
			return args.items[i], nil
		}
	}
	return args.items[len(args.items)-1], nil
}
