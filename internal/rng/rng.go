// Package rng provides the injectable randomness used by every gameplay roll.
// Resolvers never call math/rand directly so tests can script outcomes.
package rng

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source is the minimal random interface the game consumes.
type Source interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// Seeded is a reproducible Source backed by a PCG generator.
type Seeded struct {
	mu    sync.Mutex
	seed  uint64
	draws uint64
	r     *rand.Rand
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	return s.r.IntN(n)
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	return s.r.Float64()
}

// Seed returns the seed the generator was created with.
func (s *Seeded) Seed() uint64 {
	return s.seed
}

// Draws returns how many values have been drawn so far.
func (s *Seeded) Draws() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}

// Between rolls a uniform integer in [lo, hi]. Reversed bounds are swapped.
func Between(src Source, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Chance reports whether a single draw lands under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniform index into a collection of length n.
func Pick(src Source, n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: pick from empty collection (n=%d)", n))
	}
	return src.IntN(n)
}

// Scripted replays fixed values in order. Ints are returned modulo n.
type Scripted struct {
	Ints   []int
	Floats []float64

	intPos   int
	floatPos int
}

func (s *Scripted) IntN(n int) int {
	if s.intPos >= len(s.Ints) {
		panic(fmt.Sprintf("rng: scripted ints exhausted after %d draws", s.intPos))
	}
	v := s.Ints[s.intPos]
	s.intPos++
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

func (s *Scripted) Float64() float64 {
	if s.floatPos >= len(s.Floats) {
		panic(fmt.Sprintf("rng: scripted floats exhausted after %d draws", s.floatPos))
	}
	v := s.Floats[s.floatPos]
	s.floatPos++
	return v
}
