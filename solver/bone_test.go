package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spineconfig"
)

func chainDef() *definition.Definition {
	return &definition.Definition{
		Bones: []definition.Bone{
			{ID: "root", Index: 0, Parent: -1, ScaleX: 1, ScaleY: 1},
			{ID: "child", Index: 1, Parent: 0, X: 10, Length: 10, ScaleX: 1, ScaleY: 1},
		},
		PoseTasks: []definition.PoseTask{
			{Kind: definition.PoseTaskBone, Index: 1},
		},
	}
}

func TestSolvePlainChainComposesParentTranslation(t *testing.T) {
	def := chainDef()
	def.Bones[0].X = 5
	def.Bones[0].Y = 5
	inst := instance.New(def, nil)

	Solve(def, inst, spineconfig.Default())

	assert.InDelta(t, 5, inst.Palette[0].Tx, 1e-5)
	assert.InDelta(t, 15, inst.Palette[1].Tx, 1e-5)
	assert.InDelta(t, 5, inst.Palette[1].Ty, 1e-5)
}

func TestSolveOnlyTranslationModeIgnoresParentRotation(t *testing.T) {
	def := chainDef()
	def.Bones[0].RotationDeg = 90
	def.Bones[1].Mode = definition.OnlyTranslation
	inst := instance.New(def, nil)

	Solve(def, inst, spineconfig.Default())

	// Parent rotated 90 degrees, but OnlyTranslation strips rotation from
	// the child's inherited basis: its local A/B/C/D stay identity-like.
	assert.InDelta(t, 1, inst.Palette[1].A, 1e-4)
	assert.InDelta(t, 0, inst.Palette[1].B, 1e-4)
}
