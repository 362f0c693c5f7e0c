// Package solver implements the pose solver: it walks a Definition's fixed
// pose-task list and writes each bone's world 2x3 affine into the Instance's
// skinning palette (spec.md §4.4). It is new code, grounded in the
// composition style of common.BuildModelMatrix/Mul4 (spec.md's "new,
// grounded in common/math.go composition style") but specialized to 2D
// float32 affine math throughout, via spmath.Affine2.
package solver

import (
	"github.com/chewxy/math32"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spineconfig"
	"github.com/go-spine/spinecore/spmath"
)

// poseBone writes inst.Palette[idx] from the bone's current local state and
// its already-posed parent, dispatching on TransformMode (spec.md §4.4
// "Bone pose"). The root bone (parent == -1) is always Normal against an
// implicit identity parent.
func poseBone(def *definition.Definition, inst *instance.Instance, idx int) {
	b := def.Bones[idx]
	local := inst.Bones[idx]
	l := spmath.Local(local.X, local.Y, local.RotationDeg, local.ScaleX, local.ScaleY, local.ShearXDeg, local.ShearYDeg)

	if b.Parent < 0 {
		inst.Palette[idx] = l
		return
	}
	parent := inst.Palette[b.Parent]

	switch b.Mode {
	case definition.Normal:
		inst.Palette[idx] = spmath.Mul(parent, l)

	case definition.OnlyTranslation:
		// Compose only the local linear part (no parent rotation/scale/shear),
		// then place the translation by the parent's full transform.
		t := parent.Apply(spmath.NewVec2(local.X, local.Y))
		inst.Palette[idx] = spmath.Affine2{A: l.A, B: l.B, C: l.C, D: l.D, Tx: t.X(), Ty: t.Y()}

	case definition.NoRotationOrReflection:
		stripped := stripRotation(parent)
		world := spmath.Mul(stripped, l)
		t := parent.Apply(spmath.NewVec2(local.X, local.Y))
		world.Tx, world.Ty = t.X(), t.Y()
		inst.Palette[idx] = world

	case definition.NoScale, definition.NoScaleOrReflection:
		renorm := renormalizeXAxis(parent)
		world := spmath.Mul(renorm, l)
		if b.Mode == definition.NoScale && parent.Det() < 0 {
			world.C, world.D = -world.C, -world.D
		}
		t := parent.Apply(spmath.NewVec2(local.X, local.Y))
		world.Tx, world.Ty = t.X(), t.Y()
		inst.Palette[idx] = world

	default:
		inst.Palette[idx] = spmath.Mul(parent, l)
	}
}

// stripRotation preserves the parent's per-axis scale magnitude but replaces
// its rotation/reflection with identity orientation, keeping column 0's
// direction as the reference axis (spec.md §4.4 "NoRotationOrReflection").
func stripRotation(parent spmath.Affine2) spmath.Affine2 {
	sx, sy := parent.ScaleX(), parent.ScaleY()
	return spmath.Affine2{A: sx, B: 0, C: 0, D: sy}
}

// renormalizeXAxis rescales the parent's column 0 to unit length and derives
// an orthogonal column 1 of the same magnitude, discarding any non-uniform
// scale the parent applied while preserving its facing direction (spec.md
// §4.4 "NoScale / NoScaleOrReflection").
func renormalizeXAxis(parent spmath.Affine2) spmath.Affine2 {
	len0 := math32.Hypot(parent.A, parent.B)
	if len0 == 0 {
		return spmath.Identity()
	}
	ax, bx := parent.A/len0, parent.B/len0
	return spmath.Affine2{A: ax, B: bx, C: -bx, D: ax}
}

// Solve executes def's fixed pose-task list against inst, writing every
// bone's world transform into inst.Palette (spec.md §4.4). It must be
// called after ApplyCache has committed the frame's accumulated deltas into
// inst's bone/constraint state.
func Solve(def *definition.Definition, inst *instance.Instance, cfg spineconfig.Settings) {
	poseBoneRoot(def, inst)
	for _, task := range def.PoseTasks {
		switch task.Kind {
		case definition.PoseTaskBone:
			poseBone(def, inst, task.Index)
		case definition.PoseTaskIK:
			solveIK(def, inst, task.Index, cfg)
		case definition.PoseTaskPath:
			solvePath(def, inst, task.Index, cfg)
		case definition.PoseTaskTransform:
			solveTransform(def, inst, task.Index)
		}
	}
}

func poseBoneRoot(def *definition.Definition, inst *instance.Instance) {
	if len(def.Bones) == 0 {
		return
	}
	poseBone(def, inst, 0)
}
