package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

func TestAddRotationAccumulatesCommutatively(t *testing.T) {
	a := New()
	a.AddRotation(0, 10, 0.5)
	a.AddRotation(0, 20, 0.25)

	b := New()
	b.AddRotation(0, 20, 0.25)
	b.AddRotation(0, 10, 0.5)

	assert.InDelta(t, a.Rotation[0], b.Rotation[0], 1e-6)
	assert.InDelta(t, 10, a.Rotation[0], 1e-6)
}

func TestAddScaleTracksWeightSum(t *testing.T) {
	c := New()
	c.AddScale(2, 1, -1, 0.5)
	c.AddScale(2, 1, -1, 0.25)

	accum := c.Scale[2]
	assert.InDelta(t, 0.75, accum.SX, 1e-6)
	assert.InDelta(t, -0.75, accum.SY, 1e-6)
	assert.InDelta(t, 0.75, accum.WSum, 1e-6)
}

func TestResetClearsAllBucketsWithoutReallocating(t *testing.T) {
	c := New()
	c.AddRotation(1, 5, 1)
	c.AddTranslation(1, spmath.NewVec2(1, 2), 1)
	c.AddAttachmentVote(0, "foo", 1)
	c.SetDrawOrder([]int{1, 0})
	key := definition.DeformKey{SkinIndex: 0, SlotIndex: 0, AttachmentName: "mesh"}
	c.TouchDeform(key)

	c.Reset()

	assert.Empty(t, c.Rotation)
	assert.Empty(t, c.Translation)
	assert.Empty(t, c.Attachments)
	assert.Nil(t, c.DrawOrder)
	assert.False(t, c.TouchDeform(key))
}

func TestTouchDeformReportsFirstTouchOnly(t *testing.T) {
	c := New()
	key := definition.DeformKey{SkinIndex: 0, SlotIndex: 1, AttachmentName: "cape"}

	assert.False(t, c.TouchDeform(key))
	assert.True(t, c.TouchDeform(key))
}
