// Package instance holds the mutable, per-animation-session rig state
// (spec.md §3 "Instance"): current bone/slot/constraint values, the
// skinning palette, deform buffers, and draw order. Exactly one goroutine
// may touch a given Instance at a time (spec.md §5); the Definition it was
// built from is immutable and safe to share read-only across many
// Instances.
package instance

import (
	"github.com/jinzhu/copier"

	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

// EventSink receives event dispatches synchronously from evaluate_range
// (spec.md §6 "Event sink").
type EventSink interface {
	Dispatch(name string, i int32, f float32, s string)
}

// BoneState is a bone's current local transform, initialized from the
// Definition's rest pose and then displaced every frame by ApplyCache
// (spec.md §3 "Bone state").
type BoneState struct {
	X, Y                 float32
	RotationDeg          float32
	ScaleX, ScaleY       float32
	ShearXDeg, ShearYDeg float32
}

// SlotState is a slot's current attachment selection and color (spec.md §3
// "Slot state").
type SlotState struct {
	AttachmentName string
	Color          spmath.Vec4
	DarkColor      *spmath.Vec3
}

// IKState is an IK constraint's current parameter values (spec.md §3
// "Constraint state").
type IKState struct {
	Mix, Softness                   float32
	BendPositive, Compress, Stretch bool
}

// PathState is a path constraint's current parameters plus the scratch
// buffers the solver reuses every frame to avoid reallocating (spec.md §3,
// "scratch buffers (spaces, lengths, curves, segments, world, positions)").
type PathState struct {
	Position, Spacing         float32
	PositionMix, RotationMix float32

	Spaces    []float32
	Lengths   []float32
	Curves    []float32
	Segments  []float32
	World     []float32
	Positions []float32
}

// TransformState is a transform constraint's current mix values (spec.md §3
// "Constraint state").
type TransformState struct {
	PositionMix, RotationMix, ScaleMix, ShearMix float32
}

// DeformBuffer is a dense per-vertex offset array shared by every deform
// evaluator currently targeting the same key, reference-counted so the last
// evaluator to detach frees it (spec.md §3, §9 "Deform buffers shared
// across evaluators", §8 invariant 4).
type DeformBuffer struct {
	Values   []float32
	RefCount int
}

// Instance is the mutable per-session rig state (spec.md §3 "Instance").
type Instance struct {
	Def *definition.Definition

	Bones     []BoneState
	Slots     []SlotState
	IK        []IKState
	Path      []PathState
	Transform []TransformState

	// Palette holds one world 2x3 affine per bone, recomputed by the pose
	// solver every frame (spec.md §3 "Skinning palette").
	Palette []spmath.Affine2

	// ActiveSkin indexes Def.Skins; attachment lookups resolve against this
	// skin first.
	ActiveSkin int

	Deform map[definition.DeformKey]*DeformBuffer

	// DrawOrder is a permutation of [0, NumSlots); defaults to identity.
	DrawOrder []int

	Sink EventSink
}

// New constructs an Instance in rest pose with identity draw order (spec.md
// §6 "Instance::new(def, event_sink)").
func New(def *definition.Definition, sink EventSink) *Instance {
	inst := &Instance{
		Def:        def,
		Bones:      make([]BoneState, len(def.Bones)),
		Slots:      make([]SlotState, len(def.Slots)),
		IK:         make([]IKState, len(def.IK)),
		Path:       make([]PathState, len(def.Path)),
		Transform:  make([]TransformState, len(def.Transform)),
		Palette:    make([]spmath.Affine2, len(def.Bones)),
		ActiveSkin: 0,
		Deform:     map[definition.DeformKey]*DeformBuffer{},
		DrawOrder:  identityOrder(len(def.Slots)),
		Sink:       sink,
	}
	inst.resetBonesToRest()
	inst.resetSlotsToRest()
	for i, c := range def.IK {
		inst.IK[i] = IKState{
			Mix:          c.Mix,
			Softness:     c.Softness,
			BendPositive: c.BendDir >= 0,
			Compress:     c.Compress,
			Stretch:      c.Stretch,
		}
	}
	for i, c := range def.Path {
		inst.Path[i] = PathState{Position: c.Position, Spacing: c.Spacing, PositionMix: c.PositionMix, RotationMix: c.RotationMix}
	}
	for i, c := range def.Transform {
		inst.Transform[i] = TransformState{PositionMix: c.PositionMix, RotationMix: c.RotationMix, ScaleMix: c.ScaleMix, ShearMix: c.ShearMix}
	}
	return inst
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func (inst *Instance) resetBonesToRest() {
	for i, b := range inst.Def.Bones {
		inst.Bones[i] = BoneState{
			X: b.X, Y: b.Y,
			RotationDeg: b.RotationDeg,
			ScaleX:      b.ScaleX,
			ScaleY:      b.ScaleY,
			ShearXDeg:   b.ShearXDeg,
			ShearYDeg:   b.ShearYDeg,
		}
	}
}

func (inst *Instance) resetSlotsToRest() {
	for i, s := range inst.Def.Slots {
		st := SlotState{
			AttachmentName: s.DefaultAttachment,
			Color:          spmath.NewVec4(s.DefaultColor.R, s.DefaultColor.G, s.DefaultColor.B, s.DefaultColor.A),
		}
		if s.DarkColor != nil {
			dark := spmath.NewVec3(s.DarkColor.R, s.DarkColor.G, s.DarkColor.B)
			st.DarkColor = &dark
		}
		inst.Slots[i] = st
	}
}

// SetSkin switches the active skin and reproduces the original engine's
// draw-order safety net: a skin swap that changes the slot count can leave a
// previously committed non-identity draw order holding out-of-range
// indices, so the draw order resets to identity whenever that happens
// (SPEC_FULL.md "Supplemented features" #2).
func (inst *Instance) SetSkin(skinIndex int) {
	inst.ActiveSkin = skinIndex
	n := inst.Def.NumSlots()
	for _, idx := range inst.DrawOrder {
		if idx < 0 || idx >= n {
			inst.DrawOrder = identityOrder(n)
			return
		}
	}
}

// DeformFor returns the active deform buffer for (skin, slot, attachment),
// if one is currently registered (spec.md §6 "deform_for").
func (inst *Instance) DeformFor(skinIndex, slotIndex int, attachmentName string) ([]float32, bool) {
	buf, ok := inst.Deform[definition.DeformKey{SkinIndex: skinIndex, SlotIndex: slotIndex, AttachmentName: attachmentName}]
	if !ok {
		return nil, false
	}
	return buf.Values, true
}

// AcquireDeform returns the buffer for key, creating a zeroed one of the
// given length if absent, and increments its reference count. Called by a
// deform evaluator when it becomes active.
func (inst *Instance) AcquireDeform(key definition.DeformKey, length int) *DeformBuffer {
	buf, ok := inst.Deform[key]
	if !ok {
		buf = &DeformBuffer{Values: make([]float32, length)}
		inst.Deform[key] = buf
	}
	buf.RefCount++
	return buf
}

// ReleaseDeform decrements key's reference count and frees the buffer once
// it reaches zero (spec.md §8 invariant 4).
func (inst *Instance) ReleaseDeform(key definition.DeformKey) {
	buf, ok := inst.Deform[key]
	if !ok {
		return
	}
	buf.RefCount--
	if buf.RefCount <= 0 {
		delete(inst.Deform, key)
	}
}

// Clone deep-copies an Instance's mutable state (bone/constraint/slot/deform
// state, palette, draw order) so a caller can fork independent playback
// sessions from the same Definition (spec.md §3 "Instances are cloneable").
// The Definition pointer and EventSink are shared, not copied.
func (inst *Instance) Clone() (*Instance, error) {
	clone := &Instance{
		Def:        inst.Def,
		ActiveSkin: inst.ActiveSkin,
		Sink:       inst.Sink,
	}
	opt := copier.Option{DeepCopy: true}
	if err := copier.CopyWithOption(&clone.Bones, &inst.Bones, opt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&clone.Slots, &inst.Slots, opt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&clone.IK, &inst.IK, opt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&clone.Path, &inst.Path, opt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&clone.Transform, &inst.Transform, opt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&clone.Palette, &inst.Palette, opt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(&clone.DrawOrder, &inst.DrawOrder, opt); err != nil {
		return nil, err
	}
	clone.Deform = make(map[definition.DeformKey]*DeformBuffer, len(inst.Deform))
	for k, v := range inst.Deform {
		cp := *v
		cp.Values = append([]float32(nil), v.Values...)
		clone.Deform[k] = &cp
	}
	return clone, nil
}
