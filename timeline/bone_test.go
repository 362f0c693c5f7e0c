package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/definition"
)

func boneDef() *definition.Definition {
	return &definition.Definition{
		Bones: []definition.Bone{
			{ID: "root", Index: 0, Parent: -1, RotationDeg: 0, ScaleX: 1, ScaleY: 1},
		},
		Curves: nil,
	}
}

func TestBracketFindsSurroundingFramesAndHandlesRewind(t *testing.T) {
	times := []float32{0, 1, 2, 3}
	lastKey := 0

	k0, k1 := bracket(times, 1.5, &lastKey)
	assert.Equal(t, 1, k0)
	assert.Equal(t, 2, k1)

	// A rewind (t moves backward) must reset the scan rather than get stuck
	// past the correct bracket.
	k0, k1 = bracket(times, 0.5, &lastKey)
	assert.Equal(t, 0, k0)
	assert.Equal(t, 1, k1)
}

func TestBracketClampsAtFinalFrame(t *testing.T) {
	times := []float32{0, 1, 2}
	lastKey := 0
	k0, k1 := bracket(times, 10, &lastKey)
	assert.Equal(t, 2, k0)
	assert.Equal(t, 2, k1)
}

func TestRotateEvaluatorInterpolatesShortArc(t *testing.T) {
	def := boneDef()
	e := NewRotateEvaluator(definition.RotateTimeline{
		BoneIndex: 0,
		Frames: []definition.RotateKeyframe{
			{Time: 0, Value: 170},
			{Time: 1, Value: -170},
		},
	})
	c := cache.New()

	e.Evaluate(def, 0.5, 1, c)

	// 170 -> -170 is a 20 degree step across the wrap, so the midpoint is
	// 180 (or -180), not 0. The cached delta is relative to the bone's rest
	// rotation.
	delta := c.Rotation[0]
	mid := def.Bones[0].RotationDeg + delta
	assert.InDelta(t, 180, mid, 1e-3)
}

func TestRotateEvaluatorNoOpBeforeFirstFrame(t *testing.T) {
	def := boneDef()
	e := NewRotateEvaluator(definition.RotateTimeline{
		BoneIndex: 0,
		Frames: []definition.RotateKeyframe{
			{Time: 1, Value: 90},
		},
	})
	c := cache.New()

	e.Evaluate(def, 0, 1, c)

	assert.Empty(t, c.Rotation)
}
