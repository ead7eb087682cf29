package model

// Rand is the random source used by every decision in the subsystem.
// *math/rand/v2.Rand satisfies it; tests pass a seeded PCG source.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Chance draws a Bernoulli trial with probability p.
func Chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Between draws a uniform float in [lo, hi).
func Between(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
