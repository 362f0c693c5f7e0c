package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolMonotonic(t *testing.T) {
	p := NewPool()
	off := p.Add(0.25, 0.25, 0.75, 0.75)
	table := p.data[off : off+TableSize]
	for i := 2; i < TableSize; i += 2 {
		assert.GreaterOrEqual(t, table[i], table[i-2], "x samples must be non-decreasing (invariant 6)")
	}
}

func TestPoolEndpoints(t *testing.T) {
	p := NewPool()
	off := p.Add(0.1, 0.9, 0.9, 0.1)
	assert.InDelta(t, 0, p.Sample(off, 0), 1e-6)
	assert.InDelta(t, 1, p.Sample(off, 1), 1e-6)
}

func TestEvalLinear(t *testing.T) {
	a := Eval(nil, Linear, 0, 0, 1, 0.25)
	assert.InDelta(t, 0.25, a, 1e-6)
}

func TestEvalStepped(t *testing.T) {
	a := Eval(nil, Stepped, 0, 0, 1, 0.99)
	assert.InDelta(t, 0, a, 1e-6)
}
