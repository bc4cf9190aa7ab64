package generators

import (
	"fmt"

	"github.com/mmrzaf/sdstats/internal/kwargs"
)

type UniformFloatGenerator struct{}

func parseBounds(params map[string]interface{}) (float64, float64, error) {
	min, err := kwargs.Float(params, "min", 0)
	if err != nil {
		return 0, 0, err
	}
	max, err := kwargs.Float(params, "max", 0)
	if err != nil {
		return 0, 0, err
	}
	if max < min {
		return 0, 0, fmt.Errorf("max (%v) must not be below min (%v)", max, min)
	}
	return min, max, nil
}

func (g *UniformFloatGenerator) Validate(params map[string]interface{}) error {
	return validateWith("uniform", params, []string{"min", "max"}, func(p map[string]interface{}) error {
		_, _, err := parseBounds(p)
		return err
	})
}

func (g *UniformFloatGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	min, max, err := parseBounds(params)
	if err != nil {
		return nil, err
	}
	return min + ctx.Rand.Float64()*(max-min), nil
}
