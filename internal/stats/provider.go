// Package stats holds the statistical samplers: null injection, weighted
// discrete and generic distributions, dependent variables and time ranges.
//
// Every sampler draws from the *rand.Rand owned by its Provider. Nothing in
// this package touches package-level random state, so two providers built
// from the same seed and driven by the same call sequence agree exactly.
package stats

import (
	"fmt"
	"math"
	"math/rand"
)

const weightTolerance = 1e-8

type Provider struct {
	seed int64
	rng  *rand.Rand
}

func NewProvider(seed int64) *Provider {
	return &Provider{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// NewProviderWithRand wraps an existing stream. Seed reports 0.
func NewProviderWithRand(rng *rand.Rand) *Provider {
	return &Provider{rng: rng}
}

func (p *Provider) Seed() int64 { return p.seed }

func (p *Provider) Rand() *rand.Rand { return p.rng }

// Reseed restarts the stream from seed.
func (p *Provider) Reseed(seed int64) {
	p.seed = seed
	p.rng.Seed(seed)
}

// Replace returns replacement with probability proportion, otherwise value.
// A zero proportion returns value without consuming a draw.
func (p *Provider) Replace(value interface{}, proportion float64, replacement interface{}) interface{} {
	if proportion == 0 {
		return value
	}
	if p.rng.Float64() < proportion {
		return replacement
	}
	return value
}

// ReplaceMultiple applies Replace element-wise. proportions and replacements
// may be empty (all zero / all nil) or hold a single entry that is broadcast.
func (p *Provider) ReplaceMultiple(values []interface{}, proportions []float64, replacements []interface{}) ([]interface{}, error) {
	props, reps, err := broadcastNulls(len(values), proportions, replacements)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = p.Replace(v, props[i], reps[i])
	}
	return out, nil
}

func broadcastNulls(n int, proportions []float64, replacements []interface{}) ([]float64, []interface{}, error) {
	props := make([]float64, n)
	switch len(proportions) {
	case 0:
	case 1:
		for i := range props {
			props[i] = proportions[0]
		}
	case n:
		copy(props, proportions)
	default:
		return nil, nil, fmt.Errorf("%w: %d proportions for %d values", ErrLengthMismatch, len(proportions), n)
	}

	reps := make([]interface{}, n)
	switch len(replacements) {
	case 0:
	case 1:
		for i := range reps {
			reps[i] = replacements[0]
		}
	case n:
		copy(reps, replacements)
	default:
		return nil, nil, fmt.Errorf("%w: %d replacements for %d values", ErrLengthMismatch, len(replacements), n)
	}
	return props, reps, nil
}

// ValidateWeights checks that weights form a categorical distribution.
func ValidateWeights(weights []float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: no weights", ErrInvalidWeights)
	}
	sum := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: weight %d is %v", ErrInvalidWeights, i, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, expected 1", ErrInvalidWeights, sum)
	}
	return nil
}

// pick draws one index from validated weights. Zero-weight entries are never
// chosen, including when rounding leaves the cumulative sum short of the draw.
func (p *Provider) pick(weights []float64) int {
	r := p.rng.Float64()
	cum := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		cum += w
		if r < cum {
			return i
		}
	}
	return last
}
