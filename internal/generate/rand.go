package generate

// Rand is the random source consumed by the generators. *math/rand/v2.Rand satisfies it.
//
// A Rand is owned by a single generation call for its whole duration: the generators
// never reseed it and never share it. The order of draws is part of the
// reproducibility contract, so reordering any IntN call changes every level produced
// from a given seed.
type Rand interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// between returns a value in [lo, hi]. It always consumes exactly one draw.
func between(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
