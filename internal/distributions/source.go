package distributions

import (
	"math/rand"

	xrand "golang.org/x/exp/rand"
)

// Source adapts a *math/rand.Rand to the x/exp/rand Source used by distuv,
// so distribution draws advance the caller's stream.
type Source struct {
	rng *rand.Rand
}

var _ xrand.Source = (*Source)(nil)

func NewSource(rng *rand.Rand) *Source {
	return &Source{rng: rng}
}

func (s *Source) Uint64() uint64 { return s.rng.Uint64() }

func (s *Source) Seed(seed uint64) { s.rng.Seed(int64(seed)) }
