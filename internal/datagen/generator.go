// Package datagen produces the synthetic structured rows loaded into each
// demo database. Values come from hard-coded domain lists and uniform draws;
// a fixed seed reproduces the same tables.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Generator wraps a seeded random source with the draws the demos need.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Choice returns a uniformly chosen element of items.
func Choice[T any](g *Generator, items []T) T {
	return items[g.rng.Intn(len(items))]
}

// Sample returns n distinct elements of items (all of them when n >= len).
func Sample[T any](g *Generator, items []T, n int) []T {
	idx := g.rng.Perm(len(items))
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = items[idx[i]]
	}
	return out
}

// Uniform draws from [min, max).
func (g *Generator) Uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

// IntBetween draws from [min, max] inclusive.
func (g *Generator) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

// Chance returns true with probability p.
func (g *Generator) Chance(p float64) bool {
	return g.rng.Float64() < p
}

// Date draws a day in [from, to].
func (g *Generator) Date(from, to time.Time) time.Time {
	days := int(to.Sub(from).Hours() / 24)
	return truncateDay(from.AddDate(0, 0, g.IntBetween(0, days)))
}

// Weighted picks a key with probability proportional to its weight.
// Keys are visited in sorted order so the draw is reproducible.
func (g *Generator) Weighted(weights map[string]float64) string {
	keys := make([]string, 0, len(weights))
	total := 0.0
	for k, w := range weights {
		keys = append(keys, k)
		total += w
	}
	sort.Strings(keys)

	r := g.rng.Float64() * total
	for _, k := range keys {
		r -= weights[k]
		if r < 0 {
			return k
		}
	}
	return keys[len(keys)-1]
}

// Digits returns n random decimal digits.
func (g *Generator) Digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + g.rng.Intn(10))
	}
	return string(b)
}

// Letters returns n random upper-case letters.
func (g *Generator) Letters(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('A' + g.rng.Intn(26))
	}
	return string(b)
}

// Weights returns n positive weights rounded to digits decimals that sum to
// exactly 1. Rounding drift is absorbed by the largest weight.
func (g *Generator) Weights(n, digits int) []float64 {
	if n <= 0 {
		return nil
	}
	raw := make([]float64, n)
	total := 0.0
	for i := range raw {
		raw[i] = g.Uniform(0.5, 5)
		total += raw[i]
	}

	out := make([]float64, n)
	sum := 0.0
	largest := 0
	for i := range raw {
		out[i] = Round(raw[i]/total, digits)
		sum += out[i]
		if out[i] > out[largest] {
			largest = i
		}
	}
	out[largest] = Round(out[largest]+(1-sum), digits)
	return out
}

// Round rounds x to digits decimals.
func Round(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

// Scale applies factor to n, never returning less than floor.
func Scale(n int, factor float64, floor int) int {
	scaled := int(math.Round(float64(n) * factor))
	if scaled < floor {
		return floor
	}
	return scaled
}

// ID formats prefix and a zero-padded sequence number, e.g. CUST-000042.
func ID(prefix string, n int) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
