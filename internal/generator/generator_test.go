package generator

import (
	"testing"
)

func TestBetweenStaysInRange(t *testing.T) {
	g := NewSeeded(1)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := g.Between(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("value %d out of [3,7]", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected all 5 values drawn, got %v", seen)
	}
	if got := g.Between(4, 4); got != 4 {
		t.Fatalf("expected 4 for degenerate range, got %d", got)
	}
	if got := g.Between(5, 2); got != 5 {
		t.Fatalf("expected lo for inverted range, got %d", got)
	}
}

func TestWeightedSkipsZeroWeights(t *testing.T) {
	g := NewSeeded(7)
	weights := []float64{0, 1, 0, 3}
	counts := make([]int, len(weights))
	for i := 0; i < 4000; i++ {
		counts[g.Weighted(weights)]++
	}
	if counts[0] != 0 || counts[2] != 0 {
		t.Fatalf("zero-weight indices were drawn: %v", counts)
	}
	if counts[3] <= counts[1] {
		t.Fatalf("expected heavier weight to win more often: %v", counts)
	}
}

func TestWeightedFollowsProportions(t *testing.T) {
	g := NewSeeded(42)
	weights := []float64{1, 9}
	const draws = 20000
	heavy := 0
	for i := 0; i < draws; i++ {
		if g.Weighted(weights) == 1 {
			heavy++
		}
	}
	ratio := float64(heavy) / draws
	if ratio < 0.87 || ratio > 0.93 {
		t.Fatalf("expected ~0.9 share for heavy weight, got %.3f", ratio)
	}
}

func TestWeightedAllZeroFallsBackToUniform(t *testing.T) {
	g := NewSeeded(3)
	for i := 0; i < 100; i++ {
		v := g.Weighted([]float64{0, 0, 0})
		if v < 0 || v > 2 {
			t.Fatalf("index %d out of range", v)
		}
	}
}

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(99)
	b := NewSeeded(99)
	for i := 0; i < 50; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatalf("seeded generators diverged at draw %d", i)
		}
	}
}
