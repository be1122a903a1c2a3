package generate

import "math/rand/v2"

// Rand is the source of randomness of the generators. *rand.Rand satisfies
// it; tests can substitute scripted sources.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a Rand seeded with seed. The same seed always yields the
// same patches.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// between returns a uniform integer in lo..hi, inclusive.
func between(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// chance returns true with probability p.
func chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// pick returns a uniformly chosen element of items.
func pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// anyRaw returns a uniform raw value 0..127.
func anyRaw(r Rand) int {
	return r.IntN(128)
}
