package spmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPureRotation(t *testing.T) {
	m := Local(0, 0, 90, 1, 1, 0, 0)
	p := m.Apply(NewVec2(1, 0))
	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, 1, p.Y(), 1e-4)
}

func TestMulIdentity(t *testing.T) {
	m := Local(3, 4, 45, 2, 2, 0, 0)
	out := Mul(Identity(), m)
	assert.Equal(t, m, out)
}

func TestInvertRoundTrip(t *testing.T) {
	m := Local(5, -2, 30, 1.5, 0.8, 0, 0)
	inv := m.Invert(1e-5)
	roundTrip := Mul(m, inv)
	id := Identity()
	assert.InDelta(t, id.A, roundTrip.A, 1e-4)
	assert.InDelta(t, id.D, roundTrip.D, 1e-4)
	assert.InDelta(t, 0, roundTrip.Tx, 1e-4)
	assert.InDelta(t, 0, roundTrip.Ty, 1e-4)
}

func TestClampDegrees(t *testing.T) {
	assert.InDelta(t, 180, ClampDegrees(180), 1e-5)
	assert.InDelta(t, -179, ClampDegrees(181), 1e-5)
	assert.InDelta(t, 0, ClampDegrees(360), 1e-5)
}

func TestLerpDegreesShortArc(t *testing.T) {
	// 170 -> -170 is a 20 degree step across the wrap, not a 340 degree step.
	v := LerpDegrees(170, -170, 0.5)
	assert.InDelta(t, 180, ClampDegrees(v), 1e-3)
}
