package generation

import "math/rand/v2"

// RNG is a seeded random source. The same seed always deals the same board.
type RNG struct {
	seed uint64
	src  *rand.Rand
}

// NewRNG creates a new RNG with the given seed
func NewRNG(seed uint64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// RandomSeed picks a seed from the runtime's global source
func RandomSeed() uint64 {
	return rand.Uint64()
}

// Seed returns the seed the RNG was created with
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Intn returns a pseudo-random int in [0, n)
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.IntN(n)
}
