package solver

import (
	"github.com/chewxy/math32"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spineconfig"
	"github.com/go-spine/spinecore/spmath"
)

// constantSpeedSamples is the number of forward-difference samples taken
// per curve segment when tabulating arc length for a constant-speed path,
// matching the 10-sample convention spec.md §4.4 step 2 specifies.
const constantSpeedSamples = 10

// solvePath walks the target slot's active path attachment and moves,
// scales, and rotates the constraint's bone chain along it (spec.md §4.4
// "Path constraint").
func solvePath(def *definition.Definition, inst *instance.Instance, idx int, cfg spineconfig.Settings) {
	c := def.Path[idx]
	st := inst.Path[idx]
	if st.PositionMix == 0 && st.RotationMix == 0 {
		for _, b := range c.Bones {
			poseBone(def, inst, b)
		}
		return
	}

	slot := def.Slots[c.Target]
	attachment, ok := resolveAttachment(def, inst.ActiveSkin, c.Target, inst.Slots[c.Target].AttachmentName)
	if !ok || attachment.Kind() != definition.AttachmentPath {
		for _, b := range c.Bones {
			poseBone(def, inst, b)
		}
		return
	}
	path := attachment.(definition.PathAttachment)

	worldVerts := pathWorldVertices(def, inst, slot, path, cfg)
	if len(worldVerts) < 2 {
		for _, b := range c.Bones {
			poseBone(def, inst, b)
		}
		return
	}

	tangents := c.RotationMode == definition.PathRotationTangent
	scaleMode := c.RotationMode == definition.PathRotationChainScale

	spaces := computeSpacing(def, inst, c, st, cfg)
	samples := computeWorldPositions(worldVerts, path.Closed, path.ConstantSpeed, path.Lengths, spaces, tangents, cfg)
	if len(samples) == 0 {
		for _, b := range c.Bones {
			poseBone(def, inst, b)
		}
		return
	}

	applyPathSamples(def, inst, c, st, samples, tangents, scaleMode)
}

type pathSample struct {
	pos     spmath.Vec2
	tangent float32 // radians; only meaningful when tangents mode is active
}

// pathWorldVertices resolves the path attachment's rest/deformed vertices
// into world space: direct positions transformed by the slot's bone for an
// unweighted attachment, or a weighted sum of bone transforms for a
// weighted one (spec.md §4.4 step 4 "weighted paths resolve final vertex
// positions as Σ weight_i · (bone_i · local_vertex_i)").
func pathWorldVertices(def *definition.Definition, inst *instance.Instance, slot definition.Slot, path definition.PathAttachment, cfg spineconfig.Settings) []spmath.Vec2 {
	v := path.Vertices
	// Finalize has doubled VertexCount for path attachments, so it counts
	// floats here; the number of logical vertices is half of it.
	count := v.VertexCount / 2
	deform, hasDeform := inst.DeformFor(inst.ActiveSkin, slot.Index, path.Name())

	if !v.Weighted {
		localWithDeform := make([]float32, len(v.Positions))
		copy(localWithDeform, v.Positions)
		if hasDeform {
			for i := range localWithDeform {
				if i < len(deform) {
					localWithDeform[i] += deform[i]
				}
			}
		}
		bone := inst.Palette[slot.BoneIndex]
		out := make([]spmath.Vec2, count)
		for i := 0; i < count; i++ {
			local := spmath.NewVec2(localWithDeform[2*i], localWithDeform[2*i+1])
			out[i] = bone.Apply(local)
		}
		return out
	}

	out := make([]spmath.Vec2, count)
	boneCursor, weightCursor := 0, 0
	for i := 0; i < count; i++ {
		count := v.BoneCounts[i]
		var acc spmath.Vec2
		for k := 0; k < count; k++ {
			boneIdx := v.BoneIndices[boneCursor]
			lx, ly := v.BoneLocal[2*weightCursor], v.BoneLocal[2*weightCursor+1]
			if hasDeform {
				di := 2 * weightCursor
				if di+1 < len(deform) {
					lx += deform[di]
					ly += deform[di+1]
				}
			}
			w := v.BoneWeight[weightCursor]
			p := inst.Palette[boneIdx].Apply(spmath.NewVec2(lx, ly))
			acc = acc.Add(p.Mulf(w))
			boneCursor++
			weightCursor++
		}
		out[i] = acc
	}
	return out
}

// computeSpacing builds the per-bone spacing array (spec.md §4.4 step 1),
// interpreting spacingMode against each chain bone's rest length. Length
// mode adds spacing to the bone's own length; Fixed and Percent modes both
// use spacing directly as a world-space distance. Percent spacing is not
// scaled by the path's total length.
func computeSpacing(def *definition.Definition, inst *instance.Instance, c definition.PathConstraint, st instance.PathState, cfg spineconfig.Settings) []float32 {
	n := len(c.Bones)
	spaces := make([]float32, n+1)
	for i, boneIdx := range c.Bones {
		bone := def.Bones[boneIdx]
		local := inst.Bones[boneIdx]
		length := bone.Length * local.ScaleX
		switch c.SpacingMode {
		case definition.PathSpacingFixed:
			spaces[i+1] = st.Spacing
		case definition.PathSpacingPercent:
			spaces[i+1] = st.Spacing
		default: // PathSpacingLength
			if length < cfg.BoneLengthEpsilon {
				spaces[i+1] = st.Spacing
			} else {
				spaces[i+1] = length + st.Spacing
			}
		}
	}
	return spaces
}

// computeWorldPositions walks the flattened path, accumulating the spacing
// distances in spaces into world-space sample points (and, for tangent
// rotation mode, the path's local tangent angle at each sample). For a
// constant-speed path it inverts an arc-length table tabulated with
// constantSpeedSamples forward-difference steps per segment; otherwise it
// uses the attachment's stored per-curve lengths directly (spec.md §4.4
// step 2).
func computeWorldPositions(verts []spmath.Vec2, closed, constantSpeed bool, storedLengths, spaces []float32, tangents bool, cfg spineconfig.Settings) []pathSample {
	curves := buildCurves(verts, closed)
	if len(curves) == 0 {
		return nil
	}

	var curveLen []float32
	var arcTables [][]float32
	if constantSpeed {
		curveLen = make([]float32, len(curves))
		arcTables = make([][]float32, len(curves))
		for i, cu := range curves {
			table := tabulateArcLength(cu)
			arcTables[i] = table
			curveLen[i] = table[len(table)-1]
		}
	} else {
		curveLen = storedLengths
		if len(curveLen) < len(curves) {
			padded := make([]float32, len(curves))
			copy(padded, curveLen)
			curveLen = padded
		}
	}

	total := float32(0)
	for _, l := range curveLen {
		total += l
	}

	out := make([]pathSample, len(spaces))
	var dist float32
	for i, space := range spaces {
		dist += space
		if !closed {
			if i == 0 {
				dist = 0
			}
		}
		d := dist
		if d < 0 {
			d = 0
		}
		if total > 0 && d > total {
			if closed {
				d = math32.Mod(d, total)
			} else {
				d = total
			}
		}

		curveIdx := 0
		for curveIdx < len(curveLen)-1 && d > curveLen[curveIdx] {
			d -= curveLen[curveIdx]
			curveIdx++
		}
		length := curveLen[curveIdx]
		var t float32
		if length < cfg.PathSegmentEpsilon {
			t = 0
		} else if constantSpeed {
			t = invertArcLength(arcTables[curveIdx], d)
		} else {
			t = d / length
		}
		t = math32.Max(0, math32.Min(1, t))

		pos := evalCubic(curves[curveIdx], t)
		sample := pathSample{pos: pos}
		if tangents {
			tan := evalCubicTangent(curves[curveIdx], t)
			sample.tangent = math32.Atan2(tan.Y(), tan.X())
		}
		out[i] = sample
	}
	return out
}

// cubicCurve holds one path segment's four control points in world space.
type cubicCurve struct {
	p0, c1, c2, p1 spmath.Vec2
}

func buildCurves(verts []spmath.Vec2, closed bool) []cubicCurve {
	n := len(verts)
	var count int
	if closed {
		count = n / 3
	} else {
		if n < 4 {
			return nil
		}
		count = (n - 1) / 3
	}
	curves := make([]cubicCurve, 0, count)
	for k := 0; k < count; k++ {
		base := 3 * k
		p0 := verts[base%n]
		c1 := verts[(base+1)%n]
		c2 := verts[(base+2)%n]
		p1 := verts[(base+3)%n]
		curves = append(curves, cubicCurve{p0: p0, c1: c1, c2: c2, p1: p1})
	}
	return curves
}

func evalCubic(c cubicCurve, t float32) spmath.Vec2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	x := a*c.p0.X() + b*c.c1.X() + cc*c.c2.X() + d*c.p1.X()
	y := a*c.p0.Y() + b*c.c1.Y() + cc*c.c2.Y() + d*c.p1.Y()
	return spmath.NewVec2(x, y)
}

// evalCubicTangent returns the curve's (un-normalized) derivative at t.
func evalCubicTangent(c cubicCurve, t float32) spmath.Vec2 {
	mt := 1 - t
	a := 3 * mt * mt
	b := 6 * mt * t
	cc := 3 * t * t
	dx := a*(c.c1.X()-c.p0.X()) + b*(c.c2.X()-c.c1.X()) + cc*(c.p1.X()-c.c2.X())
	dy := a*(c.c1.Y()-c.p0.Y()) + b*(c.c2.Y()-c.c1.Y()) + cc*(c.p1.Y()-c.c2.Y())
	return spmath.NewVec2(dx, dy)
}

// tabulateArcLength samples c at constantSpeedSamples+1 evenly spaced t
// values and returns the cumulative chord length at each sample.
func tabulateArcLength(c cubicCurve) []float32 {
	table := make([]float32, constantSpeedSamples+1)
	prev := c.p0
	for i := 1; i <= constantSpeedSamples; i++ {
		t := float32(i) / float32(constantSpeedSamples)
		p := evalCubic(c, t)
		table[i] = table[i-1] + prev.Sub(p).Len()
		prev = p
	}
	return table
}

// invertArcLength finds the parametric t whose tabulated arc length is
// closest to distance d, linearly interpolating within the bracketing pair
// of samples.
func invertArcLength(table []float32, d float32) float32 {
	n := len(table)
	if d <= 0 {
		return 0
	}
	if d >= table[n-1] {
		return 1
	}
	for i := 1; i < n; i++ {
		if table[i] >= d {
			span := table[i] - table[i-1]
			frac := float32(0)
			if span > 0 {
				frac = (d - table[i-1]) / span
			}
			return (float32(i-1) + frac) / float32(n-1)
		}
	}
	return 1
}

// applyPathSamples moves, rotates, and (in ChainScale mode) stretches each
// chain bone toward its computed path sample (spec.md §4.4 step 3).
func applyPathSamples(def *definition.Definition, inst *instance.Instance, c definition.PathConstraint, st instance.PathState, samples []pathSample, tangents, scaleMode bool) {
	boneX, boneY := samples[0].pos.X(), samples[0].pos.Y()
	for i, boneIdx := range c.Bones {
		poseBone(def, inst, boneIdx)
		world := inst.Palette[boneIdx]

		world.Tx += (boneX - world.Tx) * st.PositionMix
		world.Ty += (boneY - world.Ty) * st.PositionMix

		next := samples[i+1]
		dx, dy := next.pos.X()-boneX, next.pos.Y()-boneY

		if scaleMode {
			length := def.Bones[boneIdx].Length * inst.Bones[boneIdx].ScaleX
			if length > 0 {
				s := (math32.Hypot(dx, dy)/length-1)*st.RotationMix + 1
				world.A *= s
				world.B *= s
			}
		}

		boneX, boneY = next.pos.X(), next.pos.Y()

		if st.RotationMix != 0 {
			var angle float32
			switch {
			case tangents:
				angle = samples[i].tangent
			default:
				angle = math32.Atan2(dy, dx)
			}
			angle -= math32.Atan2(world.B, world.A)
			angle += spmath.DegToRad(c.RotationOffset)
			angle = spmath.DegToRad(spmath.ClampDegrees(spmath.RadToDeg(angle)))
			rad := angle * st.RotationMix
			cos, sin := math32.Cos(rad), math32.Sin(rad)
			a, b, cc, d := world.A, world.B, world.C, world.D
			world.A = cos*a - sin*b
			world.B = sin*a + cos*b
			world.C = cos*cc - sin*d
			world.D = sin*cc + cos*d
		}

		inst.Palette[boneIdx] = world
	}
}
