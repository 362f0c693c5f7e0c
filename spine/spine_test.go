package spine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

func rotatingBoneDef() *definition.Definition {
	return &definition.Definition{
		Bones: []definition.Bone{
			{ID: "root", Index: 0, Parent: -1, ScaleX: 1, ScaleY: 1},
		},
		Slots: []definition.Slot{
			{ID: "slot", Index: 0, BoneIndex: 0},
		},
		Clips: []definition.Clip{
			{
				Name:     "spin",
				Duration: 2,
				Rotate: []definition.RotateTimeline{
					{BoneIndex: 0, Frames: []definition.RotateKeyframe{
						{Time: 0, Value: 0},
						{Time: 2, Value: 180},
					}},
				},
				Event: &definition.EventTimeline{
					Frames: []definition.EventKeyframe{
						{Time: 1, Name: "halfway"},
					},
				},
			},
		},
		ClipByName: map[string]int{"spin": 0},
	}
}

type eventLog struct{ names []string }

func (e *eventLog) Dispatch(name string, i int32, f float32, s string) {
	e.names = append(e.names, name)
}

func TestStepAdvancesTimeAndPosesBone(t *testing.T) {
	def := rotatingBoneDef()
	sink := &eventLog{}
	inst := New(def, sink)

	_, err := inst.ActivateClip("spin", 1, true, false)
	require.NoError(t, err)

	inst.Step(1)

	assert.InDelta(t, 90, inst.SkinningPalette()[0].RotationDeg(), 1e-3)
	assert.Equal(t, []string{"halfway"}, sink.names)
}

func TestLoopingTrackWrapsTimeAndRefiresEventsEachLoop(t *testing.T) {
	def := rotatingBoneDef()
	sink := &eventLog{}
	inst := New(def, sink)

	_, err := inst.ActivateClip("spin", 1, true, true)
	require.NoError(t, err)

	inst.Step(1)
	inst.Step(2) // crosses the 2s loop boundary and reaches the event again

	assert.Equal(t, []string{"halfway", "halfway"}, sink.names)
}

func TestNonLoopingTrackClampsAtDuration(t *testing.T) {
	def := rotatingBoneDef()
	inst := New(def, nil)

	track, err := inst.ActivateClip("spin", 1, true, false)
	require.NoError(t, err)

	inst.Step(10)

	assert.InDelta(t, 2, track.Time(), 1e-6)
	// 180 and -180 are the same rotation; compare modulo 360.
	assert.InDelta(t, 0, spmath.ClampDegrees(inst.SkinningPalette()[0].RotationDeg()-180), 1e-3)
}

func TestActivateClipRejectsUnknownName(t *testing.T) {
	def := rotatingBoneDef()
	inst := New(def, nil)

	_, err := inst.ActivateClip("missing", 1, false, false)
	assert.Error(t, err)
}

func TestDeactivateClipStopsFurtherPlayback(t *testing.T) {
	def := rotatingBoneDef()
	inst := New(def, nil)

	track, err := inst.ActivateClip("spin", 1, true, false)
	require.NoError(t, err)

	inst.Step(1)
	inst.DeactivateClip(track)
	inst.Step(1)

	// With no active track contributing a delta, ApplyCache resets the bone
	// straight back to its rest pose rather than holding the last value.
	assert.Empty(t, inst.Tracks())
	assert.InDelta(t, 0, inst.SkinningPalette()[0].RotationDeg(), 1e-3)
}

func TestCloneDivergesIndependentlyFromOriginal(t *testing.T) {
	def := rotatingBoneDef()
	inst := New(def, nil)
	_, err := inst.ActivateClip("spin", 1, true, false)
	require.NoError(t, err)

	inst.Step(1)

	clone, err := inst.Clone()
	require.NoError(t, err)

	clone.Step(1) // clone now at t=2, original stays at t=1
	inst.Step(0)  // re-pose original without advancing time

	assert.InDelta(t, 90, inst.SkinningPalette()[0].RotationDeg(), 1e-3)
	// 180 and -180 are the same rotation; compare modulo 360.
	assert.InDelta(t, 0, spmath.ClampDegrees(clone.SkinningPalette()[0].RotationDeg()-180), 1e-3)
}

func TestGetNextEventTimeFindsNextMatchingEvent(t *testing.T) {
	def := rotatingBoneDef()
	inst := New(def, nil)

	tm, ok := inst.GetNextEventTime("spin", "halfway", 0)
	require.True(t, ok)
	assert.InDelta(t, 1, tm, 1e-6)

	_, ok = inst.GetNextEventTime("spin", "halfway", 1)
	assert.False(t, ok)
}
