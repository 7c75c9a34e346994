package core

import (
	"math/rand"

	exprand "golang.org/x/exp/rand"
)

// Sampler provides random sampling for tracing algorithms. Passing it
// explicitly (rather than reaching for a package-level generator) is what
// lets pkg/batch give every ray its own deterministically-seeded stream
// without any shared mutable state.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	// Source exposes the underlying generator for callers (gonum
	// distributions in pkg/spectrum and pkg/material) that need a
	// rand.Source64/rand.Rand rather than a single float.
	Source() *rand.Rand
}

// RandomSampler wraps a standard Go random generator.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator.
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own private generator seeded
// with the given value, the shape pkg/batch uses to give each ray (seeded
// with the master seed plus the ray's task index) an independent,
// reproducible stream.
func NewSeededSampler(seed int64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewSource(seed))}
}

func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

func (r *RandomSampler) Source() *rand.Rand {
	return r.random
}

// Source64 adapts a standard library *rand.Rand to the
// golang.org/x/exp/rand.Source interface gonum's distuv package expects,
// forwarding every draw to the same underlying generator so the sequence
// produced is identical to calling the *rand.Rand directly.
type Source64 struct {
	*rand.Rand
}

// Seed satisfies golang.org/x/exp/rand.Source's uint64 seed signature by
// forwarding to the wrapped generator's int64 Seed.
func (s Source64) Seed(seed uint64) {
	s.Rand.Seed(int64(seed))
}

var _ exprand.Source = Source64{}
