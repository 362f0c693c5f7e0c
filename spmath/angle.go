package spmath

import "github.com/chewxy/math32"

// ClampDegrees maps x into (-180, 180], matching spec.md's clamp_degrees.
func ClampDegrees(x float32) float32 {
	x = math32.Mod(x, 360)
	switch {
	case x <= -180:
		x += 360
	case x > 180:
		x -= 360
	}
	return x
}

// LerpDegrees interpolates from a to b along the short arc, by t.
func LerpDegrees(a, b, t float32) float32 {
	delta := ClampDegrees(b - a)
	return a + delta*t
}

// DegToRad converts degrees to radians.
func DegToRad(d float32) float32 { return d * (math32.Pi / 180) }

// RadToDeg converts radians to degrees.
func RadToDeg(r float32) float32 { return r * (180 / math32.Pi) }
