package quantum

import "math/rand/v2"

// Rand is the source of uniform draws in [0, 1) consumed by measurement.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand returns the process-wide source.
func DefaultRand() Rand { return globalRand{} }

// NewSeededRand returns a deterministic PCG source.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
