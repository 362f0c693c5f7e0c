package solver

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spineconfig"
	"github.com/go-spine/spinecore/spmath"
)

func ik1Def() *definition.Definition {
	return &definition.Definition{
		Bones: []definition.Bone{
			{ID: "root", Index: 0, Parent: -1, ScaleX: 1, ScaleY: 1},
			{ID: "arm", Index: 1, Parent: 0, Length: 100, ScaleX: 1, ScaleY: 1},
			{ID: "target", Index: 2, Parent: 0, X: 0, Y: 100, ScaleX: 1, ScaleY: 1},
		},
		IK: []definition.IKConstraint{
			{ID: "arm-ik", Index: 0, Bones: []int{1}, Target: 2, Mix: 1, BendDir: 1},
		},
		PoseTasks: []definition.PoseTask{
			{Kind: definition.PoseTaskBone, Index: 2},
			{Kind: definition.PoseTaskIK, Index: 0},
		},
	}
}

func TestSolveIK1PointsBoneAtTarget(t *testing.T) {
	def := ik1Def()
	inst := instance.New(def, nil)

	Solve(def, inst, spineconfig.Default())

	// Target sits straight up from root; a one-bone IK solve should rotate
	// the arm to 90 degrees.
	assert.InDelta(t, 90, inst.Bones[1].RotationDeg, 1e-3)
}

func TestSolveIK1ZeroMixLeavesRestRotation(t *testing.T) {
	def := ik1Def()
	def.IK[0].Mix = 0
	inst := instance.New(def, nil)

	Solve(def, inst, spineconfig.Default())

	assert.InDelta(t, 0, inst.Bones[1].RotationDeg, 1e-6)
}

func ik2Def() *definition.Definition {
	return &definition.Definition{
		Bones: []definition.Bone{
			{ID: "root", Index: 0, Parent: -1, ScaleX: 1, ScaleY: 1},
			{ID: "upper", Index: 1, Parent: 0, Length: 50, ScaleX: 1, ScaleY: 1},
			{ID: "lower", Index: 2, Parent: 1, X: 50, Length: 50, ScaleX: 1, ScaleY: 1},
			{ID: "target", Index: 3, Parent: 0, X: 70.71, Y: 70.71, ScaleX: 1, ScaleY: 1},
		},
		IK: []definition.IKConstraint{
			{ID: "leg-ik", Index: 0, Bones: []int{1, 2}, Target: 3, Mix: 1, BendDir: 1},
		},
		PoseTasks: []definition.PoseTask{
			{Kind: definition.PoseTaskBone, Index: 3},
			{Kind: definition.PoseTaskIK, Index: 0},
		},
	}
}

func TestSolveIK2ReachesFullyExtendedTarget(t *testing.T) {
	def := ik2Def()
	inst := instance.New(def, nil)

	Solve(def, inst, spineconfig.Default())

	tip := inst.Palette[2].Apply(spmath.NewVec2(50, 0))
	target := inst.Palette[3].Translation()
	tipTargetDist := math32.Hypot(tip.X()-target.X(), tip.Y()-target.Y())
	assert.Less(t, tipTargetDist, float32(1))
}
