package sim

import "math"

// LCG is the simulation's sole randomness source: a 32-bit linear
// congruential generator (state = state*1664525 + 1013904223 mod 2^32).
//
// Two generators created with the same seed and driven through an identical
// call sequence MUST produce bit-for-bit identical streams. Agent placement,
// policy initialization, infection draws, and CEM perturbations all consume
// this stream, so rollout comparability and run reproducibility depend on
// this contract.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type LCG struct {
	state uint32
}

// NewLCG creates a generator seeded with the given value.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// NextUint32 advances the stream and returns the new state.
func (g *LCG) NextUint32() uint32 {
	g.state = g.state*1664525 + 1013904223
	return g.state
}

// NextFloat32 returns the next sample mapped into [0, 1]. The upper bound
// is closed: the float32 division rounds states near 2^32 to exactly 1.0,
// so callers deriving indices from the result must clamp.
func (g *LCG) NextFloat32() float32 {
	return float32(g.NextUint32()) / float32(math.MaxUint32)
}

// NextNormal returns a standard normal sample via Box-Muller over two
// uniform draws. The first draw is clamped away from zero before taking
// its log.
func (g *LCG) NextNormal() float32 {
	u1 := g.NextFloat32()
	if u1 < 1e-6 {
		u1 = 1e-6
	}
	u2 := g.NextFloat32()
	r := float32(math.Sqrt(-2 * math.Log(float64(u1))))
	theta := 2 * math.Pi * float64(u2)
	return r * float32(math.Cos(theta))
}
