// Package generator provides the random draws behind quiz item selection.
package generator

import (
	"math/rand"
	"time"
)

// Generator draws uniform and weighted random choices.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible runs.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform index in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}

// Between returns a uniform integer in [lo, hi]. hi below lo yields lo.
func (g *Generator) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rnd.Intn(hi-lo+1)
}

// Weighted picks an index with probability proportional to its weight.
// Non-positive weights are never picked unless every weight is non-positive,
// in which case the draw falls back to uniform.
func (g *Generator) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return g.rnd.Intn(len(weights))
	}

	r := g.rnd.Float64() * total
	acc := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	// Float rounding can leave r just above the final cumulative sum.
	return last
}
