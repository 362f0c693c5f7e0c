package spmath

import "github.com/chewxy/math32"

// Affine2 is a 2x3 affine matrix:
//
//	[ A  C  Tx ]
//	[ B  D  Ty ]
//
// Column (A,B) is the local x-axis, column (C,D) is the local y-axis, and
// (Tx,Ty) is the translation. This is the skinning-palette matrix shape used
// throughout the pose solver (spec.md §4.1).
type Affine2 struct {
	A, B, C, D, Tx, Ty float32
}

// Identity returns the identity affine matrix.
func Identity() Affine2 {
	return Affine2{A: 1, D: 1}
}

// Local builds a 2x3 matrix from rest-pose style components: position,
// rotation (degrees), per-axis scale, and per-axis shear (degrees), matching
// the teacher's BuildModelMatrix idiom but specialized to 2D and float32
// native trig (spec.md §4.4, bone pose "Normal" case).
func Local(px, py, rotDeg, sx, sy, shxDeg, shyDeg float32) Affine2 {
	shxRad := DegToRad(rotDeg + shxDeg)
	shyRad := DegToRad(rotDeg + 90 + shyDeg)

	return Affine2{
		A:  math32.Cos(shxRad) * sx,
		B:  math32.Sin(shxRad) * sx,
		C:  math32.Cos(shyRad) * sy,
		D:  math32.Sin(shyRad) * sy,
		Tx: px,
		Ty: py,
	}
}

// Mul returns parent composed with local: parent · local.
func Mul(parent, local Affine2) Affine2 {
	return Affine2{
		A:  parent.A*local.A + parent.C*local.B,
		B:  parent.B*local.A + parent.D*local.B,
		C:  parent.A*local.C + parent.C*local.D,
		D:  parent.B*local.C + parent.D*local.D,
		Tx: parent.A*local.Tx + parent.C*local.Ty + parent.Tx,
		Ty: parent.B*local.Tx + parent.D*local.Ty + parent.Ty,
	}
}

// Apply transforms a point by the matrix (rotation/scale/shear + translation).
func (m Affine2) Apply(p Vec2) Vec2 {
	return NewVec2(
		m.A*p.X()+m.C*p.Y()+m.Tx,
		m.B*p.X()+m.D*p.Y()+m.Ty,
	)
}

// ApplyDir transforms a direction by the matrix's linear part only (no
// translation) — used to carry an offset expressed in a bone's local frame
// into the frame the matrix maps to.
func (m Affine2) ApplyDir(p Vec2) Vec2 {
	return NewVec2(m.A*p.X()+m.C*p.Y(), m.B*p.X()+m.D*p.Y())
}

// Det returns the determinant of the matrix's 2x2 linear part. A negative
// determinant indicates the matrix reflects (spec.md §4.1).
func (m Affine2) Det() float32 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse of m. If the matrix is singular (|det| below
// eps), it returns the identity matrix — callers in the solver treat this as
// a degenerate-arithmetic fallback per spec.md §7.3.
func (m Affine2) Invert(eps float32) Affine2 {
	det := m.Det()
	if math32.Abs(det) < eps {
		return Identity()
	}
	invDet := 1 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	tx := -(a*m.Tx + c*m.Ty)
	ty := -(b*m.Tx + d*m.Ty)
	return Affine2{A: a, B: b, C: c, D: d, Tx: tx, Ty: ty}
}

// ScaleX returns the length of column 0 (the x-axis scale magnitude).
func (m Affine2) ScaleX() float32 {
	return math32.Hypot(m.A, m.B)
}

// ScaleY returns the length of column 1 (the y-axis scale magnitude).
func (m Affine2) ScaleY() float32 {
	return math32.Hypot(m.C, m.D)
}

// RotationDeg returns the angle of column 0 (the x-axis) in degrees.
func (m Affine2) RotationDeg() float32 {
	return RadToDeg(math32.Atan2(m.B, m.A))
}

// Translation returns the matrix's translation component.
func (m Affine2) Translation() Vec2 {
	return NewVec2(m.Tx, m.Ty)
}
