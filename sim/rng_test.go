package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// === LCG stream tests ===

func TestLCG_GoldenValues(t *testing.T) {
	// First values of the recurrence state = state*1664525 + 1013904223
	// (mod 2^32). Anything else breaks stream compatibility for every
	// seeded run.
	tests := []struct {
		name string
		seed uint32
		want []uint32
	}{
		{"seed 1", 1, []uint32{1015568748, 1586005467, 2165703038, 3027450565}},
		{"seed 42", 42, []uint32{1083814273, 378494188, 2479403867, 955863294}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLCG(tt.seed)
			for i, want := range tt.want {
				got := g.NextUint32()
				if got != want {
					t.Errorf("draw %d: got %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestLCG_DeterministicStreams(t *testing.T) {
	// Same seed + same call sequence must produce identical output.
	a := NewLCG(1337)
	b := NewLCG(1337)
	for i := 0; i < 1000; i++ {
		if av, bv := a.NextFloat32(), b.NextFloat32(); av != bv {
			t.Fatalf("draw %d: streams diverged (%v vs %v)", i, av, bv)
		}
	}
}

func TestLCG_Float32Range(t *testing.T) {
	g := NewLCG(7)
	for i := 0; i < 10000; i++ {
		v := g.NextFloat32()
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestLCG_NextNormal(t *testing.T) {
	// Determinism plus a sanity check on the sample moments.
	a := NewLCG(4242)
	b := NewLCG(4242)

	var sum, sumSq float64
	n := 20000
	for i := 0; i < n; i++ {
		av := a.NextNormal()
		if bv := b.NextNormal(); av != bv {
			t.Fatalf("draw %d: normal streams diverged", i)
		}
		sum += float64(av)
		sumSq += float64(av) * float64(av)
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, variance, 0.1)
}
