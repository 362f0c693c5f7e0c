package solver

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spineconfig"
	"github.com/go-spine/spinecore/spmath"
)

// solveIK dispatches to the one- or two-bone solve depending on how many
// bones the constraint's chain manages (spec.md §4.4 "IK with one bone" /
// "IK with two bones").
func solveIK(def *definition.Definition, inst *instance.Instance, idx int, cfg spineconfig.Settings) {
	c := def.IK[idx]
	st := inst.IK[idx]
	if st.Mix == 0 || len(c.Bones) == 0 {
		for _, b := range c.Bones {
			poseBone(def, inst, b)
		}
		return
	}
	target := inst.Palette[c.Target].Translation()

	if len(c.Bones) == 1 {
		solveIK1(def, inst, c, st, c.Bones[0], target, cfg)
		return
	}
	solveIK2(def, inst, c, st, c.Bones[0], c.Bones[1], target, cfg)
}

// solveIK1 rotates the parent bone so the tip aligns with target, blended by
// mix, then optionally compresses/stretches it to reach the target distance
// (spec.md §4.4 "IK with one bone").
func solveIK1(def *definition.Definition, inst *instance.Instance, c definition.IKConstraint, st instance.IKState, boneIdx int, target spmath.Vec2, cfg spineconfig.Settings) {
	bone := def.Bones[boneIdx]
	local := inst.Bones[boneIdx]

	var tx, ty float32
	if bone.Parent < 0 {
		tx, ty = target.X()-local.X, target.Y()-local.Y
	} else {
		parentInv := inst.Palette[bone.Parent].Invert(cfg.DeterminantEpsilon)
		localTarget := parentInv.Apply(target)
		tx, ty = localTarget.X()-local.X, localTarget.Y()-local.Y
	}

	rotationIK := spmath.RadToDeg(math32.Atan2(ty, tx)) - local.ShearXDeg - local.RotationDeg
	if local.ScaleX < 0 {
		rotationIK += 180
	}
	rotationIK = spmath.ClampDegrees(rotationIK)

	sx, sy := local.ScaleX, local.ScaleY
	if st.Compress || st.Stretch {
		b := bone.Length * sx
		dd := math32.Hypot(tx, ty)
		if b > cfg.BoneLengthEpsilon && ((st.Compress && dd < b) || (st.Stretch && dd > b)) {
			ss := (dd/b-1)*st.Mix + 1
			sx *= ss
			if c.Uniform {
				sy *= ss
			}
		}
	}

	inst.Bones[boneIdx].RotationDeg = spmath.ClampDegrees(local.RotationDeg + rotationIK*st.Mix)
	inst.Bones[boneIdx].ScaleX, inst.Bones[boneIdx].ScaleY = sx, sy
	poseBone(def, inst, boneIdx)
}

// solveIK2 is the classic planar two-link solve: law of cosines for the
// interior angle, a continuous softness easing that shrinks the effective
// target distance near full extension, and a stretch scale applied to the
// parent bone (spec.md §4.4 "IK with two bones"). It falls back to IK1 when
// the parent bone is effectively zero-length.
func solveIK2(def *definition.Definition, inst *instance.Instance, c definition.IKConstraint, st instance.IKState, parentIdx, childIdx int, target spmath.Vec2, cfg spineconfig.Settings) {
	parentBone := def.Bones[parentIdx]
	if parentBone.Length < cfg.BoneLengthEpsilon {
		solveIK1(def, inst, c, st, parentIdx, target, cfg)
		poseBone(def, inst, childIdx)
		return
	}

	grandparent := parentBone.Parent
	var grandInv spmath.Affine2
	if grandparent < 0 {
		grandInv = spmath.Identity()
	} else {
		grandInv = inst.Palette[grandparent].Invert(cfg.DeterminantEpsilon)
	}

	pLocal := inst.Bones[parentIdx]
	targetLocal := grandInv.Apply(target)
	tx := targetLocal.X() - pLocal.X
	ty := targetLocal.Y() - pLocal.Y

	// Pose the parent from its current local state so l1 is measured
	// against this frame's palette rather than a stale or zero one.
	poseBone(def, inst, parentIdx)
	childWorld := inst.Palette[parentIdx].Apply(spmath.NewVec2(def.Bones[childIdx].X, 0))
	childLocal := grandInv.Apply(childWorld)
	dx := childLocal.X() - pLocal.X
	dy := childLocal.Y() - pLocal.Y

	l1 := math32.Hypot(dx, dy)
	childBone := def.Bones[childIdx]
	childLocalState := inst.Bones[childIdx]
	l2 := childBone.Length * childLocalState.ScaleX

	dd := tx*tx + ty*ty
	if st.Softness != 0 {
		softness := st.Softness * pLocal.ScaleX
		td := math32.Sqrt(dd)
		sd := td - l1 - l2 + softness
		if sd > 0 {
			p := math32.Min(1, sd/(softness*2)) - 1
			p = (sd - softness*(1-p*p)) / td
			tx -= p * tx
			ty -= p * ty
			dd = tx*tx + ty*ty
		}
	}

	bendDir := float32(1)
	if c.BendDir < 0 {
		bendDir = -1
	}

	cos := (dd - l1*l1 - l2*l2) / (2 * l1 * l2)
	cos = math32.Max(-1, math32.Min(1, cos))
	a2 := math32.Acos(cos) * bendDir
	a := l1 + l2*cos
	b := l2 * math32.Sin(a2)
	a1 := math32.Atan2(ty*a-tx*b, tx*a+ty*b)

	rotation1 := spmath.RadToDeg(a1) - pLocal.ShearXDeg
	rotation2 := spmath.RadToDeg(a2)

	if st.Stretch && !scalar.EqualWithinAbs(float64(cos), -1, 1e-4) {
		dist := math32.Sqrt(dd)
		ss := (dist/(l1+l2) - 1) * st.Mix
		if ss > 0 {
			ratio := 1 + ss
			inst.Bones[parentIdx].ScaleX = pLocal.ScaleX * ratio
		}
	}

	inst.Bones[parentIdx].RotationDeg = spmath.ClampDegrees(pLocal.RotationDeg + rotation1*st.Mix)
	poseBone(def, inst, parentIdx)

	inst.Bones[childIdx].RotationDeg = spmath.ClampDegrees(childLocalState.RotationDeg + rotation2*st.Mix)
	poseBone(def, inst, childIdx)
}
