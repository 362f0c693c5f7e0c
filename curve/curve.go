// Package curve implements the piecewise-linear Bézier sampler shared by
// every timeline evaluator (spec.md §4.2). A curve is either Linear, Stepped,
// or a Bézier precomputed into a flat pool of 18-float tables (9 (x,y)
// samples each) at load time. A keyframe references a table through
// definition.CurveRef, which stores the type tag and the pool offset as two
// separate fields; they are not bit-packed.
package curve

import "github.com/chewxy/math32"

// Type is the interpolation kind stored per keyframe.
type Type uint8

const (
	Linear Type = iota
	Stepped
	Bezier
)

// TableSize is the number of float32 values in one Bézier sample table: 9
// (x, y) pairs.
const TableSize = 18

// Samples is the number of (x, y) pairs per table.
const Samples = TableSize / 2

// Pool is a flat, append-only arena of Bézier sample tables, built once at
// Definition finalization and then read-only for the lifetime of the
// Definition (spec.md §3 "Curve data").
type Pool struct {
	data []float32
}

// NewPool creates an empty curve pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add tabulates a cubic Bézier curve running from (0,0) through control
// points (cx0,cy0), (cx1,cy1) to (1,1) using forward differences, appends
// the 18-float table to the pool, and returns its offset.
//
// This is the standard one-time precomputation described in spec.md §4.2:
// forward differences sample the curve at t = 0.1, 0.2, ..., 0.8, the ninth
// entry is pinned to the end point (1,1), and the table is later searched
// linearly by x to approximate the curve's inverse.
func (p *Pool) Add(cx0, cy0, cx1, cy1 float32) uint32 {
	offset := uint32(len(p.data))

	const subdiv = 10
	const subdiv2 = float32(1.0 / (subdiv * subdiv))
	const subdiv3 = float32(1.0 / (subdiv * subdiv * subdiv))

	// Forward-difference coefficients for the cubic Bézier
	// B(t) = (1-t)^3*P0 + 3(1-t)^2*t*P1 + 3(1-t)*t^2*P2 + t^3*P3
	// with P0=(0,0), P3=(1,1).
	pre := float32(3)
	tmpx := (0 - cx0*2 + cx1) * 3 * subdiv2
	tmpy := (0 - cy0*2 + cy1) * 3 * subdiv2
	dddx := ((cx0-cx1)*pre - 0 + 1) * 6 * subdiv3
	dddy := ((cy0-cy1)*pre - 0 + 1) * 6 * subdiv3
	ddx := tmpx*2 + dddx
	ddy := tmpy*2 + dddy
	dx := (cx0-0)*0.3 + tmpx + dddx/6
	dy := (cy0-0)*0.3 + tmpy + dddy/6

	x, y := dx, dy

	table := make([]float32, TableSize)
	for i := 0; i < TableSize-2; i += 2 {
		table[i] = x
		table[i+1] = y
		dx += ddx
		dy += ddy
		ddx += dddx
		ddy += dddy
		x += dx
		y += dy
	}
	// Final sample is always exactly (1,1) so bracket search always
	// terminates (invariant 6, Bezier monotonicity, spec.md §8).
	table[TableSize-2] = 1
	table[TableSize-1] = 1

	p.data = append(p.data, table...)
	return offset
}

// Sample evaluates the table at offset for parameter beta (spec.md §4.2
// "Bezier: let β = linear α"). Returns the normalized interpolation
// parameter α.
func (p *Pool) Sample(offset uint32, beta float32) float32 {
	table := p.data[offset : offset+TableSize]

	if beta <= 0 {
		return 0
	}
	if beta >= 1 {
		return 1
	}

	if table[0] >= beta {
		// Below the first sample: linearly scale from zero.
		return table[1] * beta / table[0]
	}

	var i int
	for i = 2; i < TableSize; i += 2 {
		if table[i] >= beta {
			break
		}
	}
	if i >= TableSize {
		return 1
	}

	prevX, prevY := table[i-2], table[i-1]
	x, y := table[i], table[i+1]
	return prevY + (y-prevY)*(beta-prevX)/(x-prevX)
}

// Eval computes α given two adjacent keyframe times, the sample time t, the
// curve type, and (for Bezier curves) the pool + offset the keyframe stores
// (spec.md §4.2).
func Eval(pool *Pool, typ Type, offset uint32, t0, t1, t float32) float32 {
	switch typ {
	case Stepped:
		return 0
	case Bezier:
		beta := linearAlpha(t0, t1, t)
		if pool == nil {
			return beta
		}
		return pool.Sample(offset, beta)
	default: // Linear
		return linearAlpha(t0, t1, t)
	}
}

func linearAlpha(t0, t1, t float32) float32 {
	if t1 <= t0 {
		return 0
	}
	a := (t - t0) / (t1 - t0)
	return math32.Max(0, math32.Min(1, a))
}
