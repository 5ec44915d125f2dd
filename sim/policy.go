package sim

import "fmt"

const (
	// FeatureSize is the policy input width. See features.go for the layout.
	FeatureSize = 14
	// HiddenSize is the policy hidden layer width.
	HiddenSize = 16
	// outputSize is the steering output width (x, y).
	outputSize = 2
)

// Policy is a stateless two-layer perceptron mapping a feature vector to a
// steering direction in [-1,1]^2:
//
//	hidden = tanh(W1*x + b1)
//	output = tanh(W2*hidden + b2)
//
// Weights are immutable during evaluation and only ever replaced wholesale
// (SetPolicyFor, PolicyFromVector). Policies crossing an API boundary are
// copied, never aliased.
type Policy struct {
	inputSize  int
	hiddenSize int
	w1         []float32 // hiddenSize x inputSize, row-major
	b1         []float32 // hiddenSize
	w2         []float32 // outputSize x hiddenSize, row-major
	b2         []float32 // outputSize
}

// NewPolicy creates a zero-weight policy with the given layer sizes.
func NewPolicy(inputSize, hiddenSize int) *Policy {
	return &Policy{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		w1:         make([]float32, inputSize*hiddenSize),
		b1:         make([]float32, hiddenSize),
		w2:         make([]float32, hiddenSize*outputSize),
		b2:         make([]float32, outputSize),
	}
}

// Clone returns a deep copy.
func (p *Policy) Clone() *Policy {
	c := NewPolicy(p.inputSize, p.hiddenSize)
	copy(c.w1, p.w1)
	copy(c.b1, p.b1)
	copy(c.w2, p.w2)
	copy(c.b2, p.b2)
	return c
}

// Randomize fills every weight and bias uniformly in [-scale, scale],
// consuming one rng draw per parameter in W1, b1, W2, b2 order.
func (p *Policy) Randomize(rng *LCG, scale float32) {
	fill := func(dst []float32) {
		for i := range dst {
			dst[i] = (rng.NextFloat32()*2 - 1) * scale
		}
	}
	fill(p.w1)
	fill(p.b1)
	fill(p.w2)
	fill(p.b2)
}

// Forward evaluates the network. It is pure and deterministic: the same
// input always produces the same output. hidden is caller-supplied scratch
// of at least hiddenSize elements, keeping the per-agent hot loop
// allocation-free.
func (p *Policy) Forward(input, hidden []float32) Vec2 {
	in := input[:p.inputSize]
	for h := 0; h < p.hiddenSize; h++ {
		row := h * p.inputSize
		hidden[h] = tanh32(p.b1[h] + dot(p.w1[row:row+p.inputSize], in))
	}
	hid := hidden[:p.hiddenSize]
	var out [outputSize]float32
	for o := 0; o < outputSize; o++ {
		row := o * p.hiddenSize
		out[o] = tanh32(p.b2[o] + dot(p.w2[row:row+p.hiddenSize], hid))
	}
	return Vec2{X: out[0], Y: out[1]}
}

// ParamCount returns the total number of parameters.
func (p *Policy) ParamCount() int {
	return len(p.w1) + len(p.b1) + len(p.w2) + len(p.b2)
}

// ToVector flattens the parameters in the fixed order W1, b1, W2, b2.
// PolicyFromVector relies on this order; the CEM trainer perturbs and
// reconstructs policies through it.
func (p *Policy) ToVector() []float32 {
	params := make([]float32, 0, p.ParamCount())
	params = append(params, p.w1...)
	params = append(params, p.b1...)
	params = append(params, p.w2...)
	params = append(params, p.b2...)
	return params
}

// PolicyFromVector inflates a parameter vector produced by ToVector.
// A length mismatch is a contract violation between the trainer and the
// policy layout, not a recoverable error, and panics.
func PolicyFromVector(inputSize, hiddenSize int, params []float32) *Policy {
	expected := inputSize*hiddenSize + hiddenSize + hiddenSize*outputSize + outputSize
	if len(params) != expected {
		panic(fmt.Sprintf("sim: policy vector has %d params, want %d (input=%d hidden=%d)",
			len(params), expected, inputSize, hiddenSize))
	}
	p := NewPolicy(inputSize, hiddenSize)
	offset := 0
	take := func(dst []float32) {
		copy(dst, params[offset:offset+len(dst)])
		offset += len(dst)
	}
	take(p.w1)
	take(p.b1)
	take(p.w2)
	take(p.b2)
	return p
}

func dot(w, x []float32) float32 {
	var acc float32
	for i := range w {
		acc += w[i] * x[i]
	}
	return acc
}
