package generators

import (
	"fmt"

	"github.com/mmrzaf/sdstats/internal/kwargs"
)

// UniformIntGenerator draws from [min, max).
type UniformIntGenerator struct{}

func parseIntBounds(params map[string]interface{}) (int64, int64, error) {
	min, err := kwargs.Int(params, "min", 0)
	if err != nil {
		return 0, 0, err
	}
	max, err := kwargs.Int(params, "max", 0)
	if err != nil {
		return 0, 0, err
	}
	if max <= min {
		return 0, 0, fmt.Errorf("max (%d) must be greater than min (%d)", max, min)
	}
	return min, max, nil
}

func (g *UniformIntGenerator) Validate(params map[string]interface{}) error {
	return validateWith("randint", params, []string{"min", "max"}, func(p map[string]interface{}) error {
		_, _, err := parseIntBounds(p)
		return err
	})
}

func (g *UniformIntGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	min, max, err := parseIntBounds(params)
	if err != nil {
		return nil, err
	}
	return min + ctx.Rand.Int63n(max-min), nil
}
