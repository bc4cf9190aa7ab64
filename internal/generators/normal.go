package generators

import (
	"fmt"
	"math"

	"github.com/mmrzaf/sdstats/internal/distributions"
	"github.com/mmrzaf/sdstats/internal/kwargs"
)

type NormalGenerator struct{}

func parseNormal(params map[string]interface{}) (float64, float64, error) {
	mean, err := kwargs.Float(params, "mean", 0)
	if err != nil {
		return 0, 0, err
	}
	std, err := kwargs.Float(params, "std", 1)
	if err != nil {
		return 0, 0, err
	}
	if std < 0 {
		return 0, 0, fmt.Errorf("'std' must not be negative, got %v", std)
	}
	return mean, std, nil
}

func (g *NormalGenerator) Validate(params map[string]interface{}) error {
	return validateWith("normal", params, []string{"mean", "std"}, func(p map[string]interface{}) error {
		_, _, err := parseNormal(p)
		return err
	})
}

func (g *NormalGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	mean, std, err := parseNormal(params)
	if err != nil {
		return nil, err
	}
	return ctx.Rand.NormFloat64()*std + mean, nil
}

// TruncNormGenerator samples a normal truncated to [loc+a*scale, loc+b*scale].
// With round set the result is an integer.
type TruncNormGenerator struct{}

var truncNormKeys = []string{"a", "b", "loc", "scale"}

func (g *TruncNormGenerator) Validate(params map[string]interface{}) error {
	return validateWith("truncnorm", params, []string{"a", "b"}, func(p map[string]interface{}) error {
		if _, err := kwargs.Bool(p, "round", false); err != nil {
			return err
		}
		return distributions.Validate("truncnorm", p)
	})
}

func (g *TruncNormGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	round, err := kwargs.Bool(params, "round", false)
	if err != nil {
		return nil, err
	}
	dp := make(map[string]interface{}, len(truncNormKeys))
	for _, k := range truncNormKeys {
		if v, ok := params[k]; ok {
			dp[k] = v
		}
	}
	v, err := distributions.Sample("truncnorm", dp, ctx.Source)
	if err != nil {
		return nil, err
	}
	if round {
		return int64(math.Round(v)), nil
	}
	return v, nil
}
