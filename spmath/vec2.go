// Package spmath contains the math primitives shared by every other package in
// this module: 2D vectors, the 2x3 affine matrix used for bone world
// transforms, and the degree-based angle helpers the solver and timelines
// both depend on. Nothing here is GPU- or render-facing; it is plain CPU
// float32 math.
package spmath

import "github.com/go-gl/mathgl/mgl32"

// Vec2 is a 2D vector. It embeds mgl32.Vec2 for the handful of linear-algebra
// conveniences (Len, Normalize, Dot) wrapped below, while
// keeping field access (X via [0], Y via [1]) ergonomic through the accessor
// methods below.
type Vec2 struct {
	mgl32.Vec2
}

// NewVec2 constructs a Vec2 from its components.
func NewVec2(x, y float32) Vec2 {
	return Vec2{mgl32.Vec2{x, y}}
}

// X returns the vector's x component.
func (v Vec2) X() float32 { return v.Vec2[0] }

// Y returns the vector's y component.
func (v Vec2) Y() float32 { return v.Vec2[1] }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.Vec2.Add(o.Vec2)} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.Vec2.Sub(o.Vec2)} }

// Mulf returns v scaled by f.
func (v Vec2) Mulf(f float32) Vec2 { return Vec2{v.Vec2.Mul(f)} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 { return v.Vec2.Dot(o.Vec2) }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float32 { return v.Vec2.Len() }

// Normalize returns v scaled to unit length, or the zero vector if v is the
// zero vector (mgl32.Vec2.Normalize divides by zero otherwise).
func (v Vec2) Normalize() Vec2 {
	if v.Vec2[0] == 0 && v.Vec2[1] == 0 {
		return v
	}
	return Vec2{v.Vec2.Normalize()}
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec2 linearly interpolates each component of a and b by t.
func LerpVec2(a, b Vec2, t float32) Vec2 {
	return NewVec2(Lerp(a.X(), b.X(), t), Lerp(a.Y(), b.Y(), t))
}
