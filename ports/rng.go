package ports

import "math/rand/v2"

// RNG provides seeded deterministic sub-streams. Row streams make
// condition rows independent of each other's random consumption, which
// is what allows the runner to parallelize without changing results.
type RNG interface {
	// Seed returns the master seed behind every sub-stream.
	Seed() uint64

	// Row returns the deterministic stream for a condition row index.
	Row(index int) *rand.Rand

	// Named returns a deterministic stream for a named operation.
	Named(name string) *rand.Rand
}
