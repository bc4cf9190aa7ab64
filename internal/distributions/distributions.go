// Package distributions exposes named continuous and discrete distributions
// for use by the generic distribution and time samplers.
package distributions

import (
	"fmt"
	"math"
	"sort"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mmrzaf/sdstats/internal/kwargs"
)

// Sampler draws one value per call.
type Sampler interface {
	Rand() float64
}

type builder func(params map[string]interface{}, src xrand.Source) (Sampler, error)

var builders = map[string]builder{
	"uniform":     newUniform,
	"normal":      newNormal,
	"truncnorm":   newTruncNorm,
	"beta":        newBeta,
	"triangular":  newTriangular,
	"exponential": newExponential,
	"lognormal":   newLogNormal,
	"poisson":     newPoisson,
	"bernoulli":   newBernoulli,
	"constant":    newConstant,
}

// Params lists the keyword parameters each distribution reads.
var Params = map[string][]string{
	"uniform":     {"low", "high"},
	"normal":      {"loc", "scale"},
	"truncnorm":   {"a", "b", "loc", "scale"},
	"beta":        {"a", "b"},
	"triangular":  {"left", "mode", "right"},
	"exponential": {"scale"},
	"lognormal":   {"mean", "sigma"},
	"poisson":     {"lam"},
	"bernoulli":   {"p"},
	"constant":    {"value"},
}

func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named distribution over src.
func New(name string, params map[string]interface{}, src xrand.Source) (Sampler, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown distribution: %s", name)
	}
	s, err := b(params, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Validate checks name and params without drawing.
func Validate(name string, params map[string]interface{}) error {
	_, err := New(name, params, nil)
	return err
}

func Sample(name string, params map[string]interface{}, src xrand.Source) (float64, error) {
	s, err := New(name, params, src)
	if err != nil {
		return 0, err
	}
	return s.Rand(), nil
}

func newUniform(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	low, err := kwargs.Float(params, "low", 0)
	if err != nil {
		return nil, err
	}
	high, err := kwargs.Float(params, "high", 1)
	if err != nil {
		return nil, err
	}
	if high < low {
		return nil, fmt.Errorf("high (%v) must not be below low (%v)", high, low)
	}
	return distuv.Uniform{Min: low, Max: high, Src: src}, nil
}

func newNormal(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	loc, scale, err := locScale(params)
	if err != nil {
		return nil, err
	}
	return distuv.Normal{Mu: loc, Sigma: scale, Src: src}, nil
}

func locScale(params map[string]interface{}) (float64, float64, error) {
	loc, err := kwargs.Float(params, "loc", 0)
	if err != nil {
		return 0, 0, err
	}
	scale, err := kwargs.Float(params, "scale", 1)
	if err != nil {
		return 0, 0, err
	}
	if scale <= 0 {
		return 0, 0, fmt.Errorf("scale must be positive, got %v", scale)
	}
	return loc, scale, nil
}

// truncNorm follows the scipy convention: a and b bound the standard
// normal before loc and scale are applied.
type truncNorm struct {
	lo, hi     float64
	loc, scale float64
	src        xrand.Source
}

func newTruncNorm(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	a, err := kwargs.Float(params, "a", math.Inf(-1))
	if err != nil {
		return nil, err
	}
	b, err := kwargs.Float(params, "b", math.Inf(1))
	if err != nil {
		return nil, err
	}
	if !(a < b) {
		return nil, fmt.Errorf("a (%v) must be below b (%v)", a, b)
	}
	loc, scale, err := locScale(params)
	if err != nil {
		return nil, err
	}
	return truncNorm{
		lo:    distuv.UnitNormal.CDF(a),
		hi:    distuv.UnitNormal.CDF(b),
		loc:   loc,
		scale: scale,
		src:   src,
	}, nil
}

func (t truncNorm) Rand() float64 {
	u := distuv.Uniform{Min: t.lo, Max: t.hi, Src: t.src}.Rand()
	return t.loc + t.scale*distuv.UnitNormal.Quantile(u)
}

func newBeta(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	a, err := kwargs.Float(params, "a", 1)
	if err != nil {
		return nil, err
	}
	b, err := kwargs.Float(params, "b", 1)
	if err != nil {
		return nil, err
	}
	if a <= 0 || b <= 0 {
		return nil, fmt.Errorf("a and b must be positive, got %v and %v", a, b)
	}
	return distuv.Beta{Alpha: a, Beta: b, Src: src}, nil
}

func newTriangular(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	left, err := kwargs.Float(params, "left", 0)
	if err != nil {
		return nil, err
	}
	right, err := kwargs.Float(params, "right", 1)
	if err != nil {
		return nil, err
	}
	mode, err := kwargs.Float(params, "mode", (left+right)/2)
	if err != nil {
		return nil, err
	}
	if !(left < right) || mode < left || mode > right {
		return nil, fmt.Errorf("need left <= mode <= right and left < right, got %v, %v, %v", left, mode, right)
	}
	return distuv.NewTriangle(left, right, mode, src), nil
}

func newExponential(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	scale, err := kwargs.Float(params, "scale", 1)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", scale)
	}
	return distuv.Exponential{Rate: 1 / scale, Src: src}, nil
}

func newLogNormal(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	mean, err := kwargs.Float(params, "mean", 0)
	if err != nil {
		return nil, err
	}
	sigma, err := kwargs.Float(params, "sigma", 1)
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %v", sigma)
	}
	return distuv.LogNormal{Mu: mean, Sigma: sigma, Src: src}, nil
}

func newPoisson(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	lam, err := kwargs.Float(params, "lam", 1)
	if err != nil {
		return nil, err
	}
	if lam <= 0 {
		return nil, fmt.Errorf("lam must be positive, got %v", lam)
	}
	return distuv.Poisson{Lambda: lam, Src: src}, nil
}

func newBernoulli(params map[string]interface{}, src xrand.Source) (Sampler, error) {
	p, err := kwargs.Float(params, "p", 0.5)
	if err != nil {
		return nil, err
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("p must lie in [0, 1], got %v", p)
	}
	return distuv.Bernoulli{P: p, Src: src}, nil
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }

func newConstant(params map[string]interface{}, _ xrand.Source) (Sampler, error) {
	if !kwargs.Has(params, "value") {
		return nil, fmt.Errorf("'value' is required")
	}
	v, err := kwargs.Float(params, "value", 0)
	if err != nil {
		return nil, err
	}
	return constant(v), nil
}
