package spmath

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is used for the dark-tint half of a two-color slot.
type Vec3 struct {
	mgl32.Vec3
}

// NewVec3 constructs a Vec3 from its components.
func NewVec3(x, y, z float32) Vec3 { return Vec3{mgl32.Vec3{x, y, z}} }

func (v Vec3) X() float32 { return v.Vec3[0] }
func (v Vec3) Y() float32 { return v.Vec3[1] }
func (v Vec3) Z() float32 { return v.Vec3[2] }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.Vec3.Add(o.Vec3)} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.Vec3.Sub(o.Vec3)} }
func (v Vec3) Mulf(f float32) Vec3  { return Vec3{v.Vec3.Mul(f)} }

// Vec4 is an RGBA color (0-255 space, per spec.md §4.3 "Slot color").
type Vec4 struct {
	mgl32.Vec4
}

// NewVec4 constructs a Vec4 from its components.
func NewVec4(x, y, z, w float32) Vec4 { return Vec4{mgl32.Vec4{x, y, z, w}} }

func (v Vec4) X() float32 { return v.Vec4[0] }
func (v Vec4) Y() float32 { return v.Vec4[1] }
func (v Vec4) Z() float32 { return v.Vec4[2] }
func (v Vec4) W() float32 { return v.Vec4[3] }

func (v Vec4) Add(o Vec4) Vec4     { return Vec4{v.Vec4.Add(o.Vec4)} }
func (v Vec4) Sub(o Vec4) Vec4     { return Vec4{v.Vec4.Sub(o.Vec4)} }
func (v Vec4) Mulf(f float32) Vec4 { return Vec4{v.Vec4.Mul(f)} }

// LerpVec4 linearly interpolates each component of a and b by t.
func LerpVec4(a, b Vec4, t float32) Vec4 {
	return NewVec4(Lerp(a.X(), b.X(), t), Lerp(a.Y(), b.Y(), t), Lerp(a.Z(), b.Z(), t), Lerp(a.W(), b.W(), t))
}

// LerpVec3 linearly interpolates each component of a and b by t.
func LerpVec3(a, b Vec3, t float32) Vec3 {
	return NewVec3(Lerp(a.X(), b.X(), t), Lerp(a.Y(), b.Y(), t), Lerp(a.Z(), b.Z(), t))
}
