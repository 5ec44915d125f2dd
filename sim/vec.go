package sim

import "math"

// Vec2 is a 2D float32 vector. All simulation geometry stays in float32 so
// that identically-seeded runs reproduce bit-for-bit.
type Vec2 struct {
	X float32
	Y float32
}

// NewVec2 creates a vector from its components.
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean norm of v.
func (v Vec2) Length() float32 {
	return sqrt32(v.X*v.X + v.Y*v.Y)
}

// Limit returns v scaled down to length max if it is longer, otherwise v.
func (v Vec2) Limit(max float32) Vec2 {
	l := v.Length()
	if l > max {
		return v.Scale(max / l)
	}
	return v
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func exp32(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func tanh32(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}
