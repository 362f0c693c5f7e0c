package solver

import (
	"github.com/chewxy/math32"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spmath"
)

// solveTransform copies (with mix and offsets) the target bone's transform
// onto every bone in the constraint's chain, dispatching on the four
// combinatorial {absolute,relative} x {world,local} modes (spec.md §4.4
// "Transform constraint").
func solveTransform(def *definition.Definition, inst *instance.Instance, idx int) {
	c := def.Transform[idx]
	st := inst.Transform[idx]
	if st.PositionMix == 0 && st.RotationMix == 0 && st.ScaleMix == 0 && st.ShearMix == 0 {
		for _, b := range c.Bones {
			poseBone(def, inst, b)
		}
		return
	}

	target := inst.Palette[c.Target]

	if c.Local {
		solveTransformLocal(def, inst, c, st, target)
		return
	}
	solveTransformWorld(def, inst, c, st, target)
}

// solveTransformWorld implements the absolute-world and relative-world
// modes, operating directly on each managed bone's already-posed world
// matrix.
func solveTransformWorld(def *definition.Definition, inst *instance.Instance, c definition.TransformConstraint, st instance.TransformState, target spmath.Affine2) {
	targetRotation := target.RotationDeg()
	targetDet := target.Det()

	for _, boneIdx := range c.Bones {
		poseBone(def, inst, boneIdx)
		world := inst.Palette[boneIdx]

		rotOffset := c.DRotDeg
		if targetDet < 0 {
			rotOffset = -rotOffset
		}

		var rotDelta float32
		if c.Relative {
			rotDelta = targetRotation + rotOffset
		} else {
			rotDelta = targetRotation - world.RotationDeg() + rotOffset
		}
		rotDelta = spmath.ClampDegrees(rotDelta)

		if st.RotationMix != 0 {
			rad := spmath.DegToRad(rotDelta * st.RotationMix)
			cos, sin := math32.Cos(rad), math32.Sin(rad)
			world = spmath.Affine2{
				A: cos*world.A - sin*world.B,
				B: sin*world.A + cos*world.B,
				C: cos*world.C - sin*world.D,
				D: sin*world.C + cos*world.D,
				Tx: world.Tx, Ty: world.Ty,
			}
		}

		if st.PositionMix != 0 {
			offset := target.ApplyDir(spmath.NewVec2(c.DX, c.DY))
			var toward spmath.Vec2
			if c.Relative {
				toward = spmath.NewVec2(world.Tx+offset.X(), world.Ty+offset.Y())
			} else {
				toward = spmath.NewVec2(target.Tx+offset.X(), target.Ty+offset.Y())
			}
			world.Tx += (toward.X() - world.Tx) * st.PositionMix
			world.Ty += (toward.Y() - world.Ty) * st.PositionMix
		}

		if st.ScaleMix != 0 {
			sx, sy := world.ScaleX(), world.ScaleY()
			var targetSX, targetSY float32
			if c.Relative {
				targetSX, targetSY = sx*(target.ScaleX()+c.DScaleX-1)+sx, sy*(target.ScaleY()+c.DScaleY-1)+sy
			} else {
				targetSX, targetSY = sx+(target.ScaleX()+c.DScaleX-sx), sy+(target.ScaleY()+c.DScaleY-sy)
			}
			if sx != 0 {
				ratioX := 1 + (targetSX/sx-1)*st.ScaleMix
				world.A *= ratioX
				world.B *= ratioX
			}
			if sy != 0 {
				ratioY := 1 + (targetSY/sy-1)*st.ScaleMix
				world.C *= ratioY
				world.D *= ratioY
			}
		}

		if st.ShearMix != 0 {
			// Shear column 1 toward the target's y-axis angle, offset by the
			// constraint's configured shear delta (spec.md §4.4 "shear
			// column 1 by shearMix").
			targetShear := math32.Atan2(target.D, target.C)
			curShear := math32.Atan2(world.D, world.C)
			delta := spmath.ClampDegrees(spmath.RadToDeg(targetShear-curShear) + c.DShearYDeg)
			rad := spmath.DegToRad(delta * st.ShearMix)
			cos, sin := math32.Cos(rad), math32.Sin(rad)
			newC := cos*world.C - sin*world.D
			newD := sin*world.C + cos*world.D
			world.C, world.D = newC, newD
		}

		inst.Palette[boneIdx] = world
	}
}

// solveTransformLocal implements the absolute-local and relative-local
// modes, operating on each managed bone's local state before recomposing
// its world matrix through the normal parent chain.
func solveTransformLocal(def *definition.Definition, inst *instance.Instance, c definition.TransformConstraint, st instance.TransformState, target spmath.Affine2) {
	targetBone := inst.Bones[c.Target]

	for _, boneIdx := range c.Bones {
		local := inst.Bones[boneIdx]

		if st.RotationMix != 0 {
			var delta float32
			if c.Relative {
				delta = targetBone.RotationDeg + c.DRotDeg
			} else {
				delta = spmath.ClampDegrees(targetBone.RotationDeg - local.RotationDeg + c.DRotDeg)
			}
			local.RotationDeg = spmath.ClampDegrees(local.RotationDeg + delta*st.RotationMix)
		}
		if st.PositionMix != 0 {
			var dx, dy float32
			if c.Relative {
				dx, dy = targetBone.X+c.DX, targetBone.Y+c.DY
			} else {
				dx, dy = targetBone.X-local.X+c.DX, targetBone.Y-local.Y+c.DY
			}
			local.X += dx * st.PositionMix
			local.Y += dy * st.PositionMix
		}
		if st.ScaleMix != 0 {
			var dsx, dsy float32
			if c.Relative {
				dsx, dsy = targetBone.ScaleX+c.DScaleX-1, targetBone.ScaleY+c.DScaleY-1
			} else {
				dsx, dsy = targetBone.ScaleX-local.ScaleX+c.DScaleX, targetBone.ScaleY-local.ScaleY+c.DScaleY
			}
			local.ScaleX += dsx * st.ScaleMix
			local.ScaleY += dsy * st.ScaleMix
		}
		if st.ShearMix != 0 {
			var dshy float32
			if c.Relative {
				dshy = targetBone.ShearYDeg + c.DShearYDeg
			} else {
				dshy = spmath.ClampDegrees(targetBone.ShearYDeg - local.ShearYDeg + c.DShearYDeg)
			}
			local.ShearYDeg = spmath.ClampDegrees(local.ShearYDeg + dshy*st.ShearMix)
		}

		inst.Bones[boneIdx] = local
		poseBone(def, inst, boneIdx)
	}
}
