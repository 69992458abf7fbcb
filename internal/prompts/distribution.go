package prompts

import "math/rand/v2"

// Rand draws integers in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Weight is one label and its share, nominally out of 100.
type Weight struct {
	Label  string
	Weight float64
}

// Distribution is an ordered label -> weight mapping.
type Distribution []Weight

// Select draws in [1,100] and walks the weights cumulatively, returning the
// first label whose running total reaches the draw. Weights that sum short of
// the draw fall back to the first label. An empty distribution yields "".
func (d Distribution) Select(rng Rand) string {
	if len(d) == 0 {
		return ""
	}
	draw := float64(rng.IntN(100) + 1)
	cumulative := 0.0
	for _, w := range d {
		cumulative += w.Weight
		if draw <= cumulative {
			return w.Label
		}
	}
	return d[0].Label
}
