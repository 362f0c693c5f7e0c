package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spineconfig"
)

func twoBoneTwoSlotDef() *definition.Definition {
	return &definition.Definition{
		Bones: []definition.Bone{
			{ID: "root", Index: 0, Parent: -1, ScaleX: 1, ScaleY: 1},
			{ID: "child", Index: 1, Parent: 0, X: 10, ScaleX: 1, ScaleY: 1},
		},
		Slots: []definition.Slot{
			{ID: "a", Index: 0, BoneIndex: 0, DefaultAttachment: "a-default"},
			{ID: "b", Index: 1, BoneIndex: 1, DefaultAttachment: "b-default"},
		},
	}
}

func TestNewPutsInstanceInRestPose(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)

	assert.Equal(t, []int{0, 1}, inst.DrawOrder)
	assert.Equal(t, "a-default", inst.Slots[0].AttachmentName)
	assert.InDelta(t, 10, inst.Bones[1].X, 1e-6)
}

func TestSetSkinResetsDrawOrderOnSlotCountMismatch(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)
	inst.DrawOrder = []int{1, 0}

	// Simulate a skin swap that narrows the slot count: an out-of-range
	// index in the committed draw order must fall back to identity.
	inst.DrawOrder = append(inst.DrawOrder, 5)
	inst.SetSkin(1)

	assert.Equal(t, []int{0, 1}, inst.DrawOrder)
}

func TestDeformAcquireReleaseRefCounts(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)
	key := definition.DeformKey{SkinIndex: 0, SlotIndex: 0, AttachmentName: "mesh"}

	buf1 := inst.AcquireDeform(key, 4)
	buf2 := inst.AcquireDeform(key, 4)
	assert.Same(t, buf1, buf2)
	assert.Equal(t, 2, buf1.RefCount)

	inst.ReleaseDeform(key)
	_, stillThere := inst.Deform[key]
	assert.True(t, stillThere)

	inst.ReleaseDeform(key)
	_, gone := inst.Deform[key]
	assert.False(t, gone)
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)
	key := definition.DeformKey{SkinIndex: 0, SlotIndex: 0, AttachmentName: "mesh"}
	buf := inst.AcquireDeform(key, 2)
	buf.Values[0] = 1

	clone, err := inst.Clone()
	require.NoError(t, err)

	clone.Bones[0].X = 999
	cloneBuf, _ := clone.DeformFor(0, 0, "mesh")
	cloneBuf[0] = 42

	assert.InDelta(t, 0, inst.Bones[0].X, 1e-6)
	origBuf, _ := inst.DeformFor(0, 0, "mesh")
	assert.InDelta(t, 1, origBuf[0], 1e-6)
}

func TestApplyCacheFadesUnanimatedScaleBackToRest(t *testing.T) {
	def := twoBoneTwoSlotDef()
	def.Bones[1].ScaleX = 2
	def.Bones[1].ScaleY = 2
	inst := New(def, nil)

	c := cache.New()
	c.AddScale(1, 1, 1, 0.5) // half weight: fades halfway toward rest+delta

	inst.ApplyCache(c, spineconfig.Default())

	assert.InDelta(t, 2.5, inst.Bones[1].ScaleX, 1e-5)
	assert.InDelta(t, 2.5, inst.Bones[1].ScaleY, 1e-5)
}

func TestApplyCacheCommitsTopWeightAttachmentVote(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)

	c := cache.New()
	c.AddAttachmentVote(0, "low", 0.25)
	c.AddAttachmentVote(0, "high", 0.75)

	inst.ApplyCache(c, spineconfig.Default())

	assert.Equal(t, "high", inst.Slots[0].AttachmentName)
}

func TestApplyCacheResetsAttachmentToDefaultWhenNoVoteWins(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)
	inst.Slots[1].AttachmentName = "stale"

	c := cache.New()
	c.AddAttachmentVote(0, "high", 1)
	c.AddAttachmentVote(1, "low", 0.1)

	inst.ApplyCache(c, spineconfig.Default())

	assert.Equal(t, "b-default", inst.Slots[1].AttachmentName)
}

func TestApplyCacheClearsCache(t *testing.T) {
	def := twoBoneTwoSlotDef()
	inst := New(def, nil)
	c := cache.New()
	c.AddRotation(0, 10, 1)

	inst.ApplyCache(c, spineconfig.Default())

	assert.Empty(t, c.Rotation)
}
