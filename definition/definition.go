// Package definition holds the immutable, load-once, shared rig model: bones,
// slots, constraints, skins, attachments, and animation clips (spec.md §3).
// A Definition is only ever constructed through package build's two-phase
// shell-then-finalize process; nothing in this package mutates a Definition
// after construction, so it is safe to share read-only across goroutines
// (spec.md §5).
package definition

import "github.com/go-spine/spinecore/curve"

// PoseTaskKind tags one entry in the ordered pose-task list (spec.md §3
// "Pose task list").
type PoseTaskKind uint8

const (
	PoseTaskBone PoseTaskKind = iota
	PoseTaskIK
	PoseTaskPath
	PoseTaskTransform
)

// PoseTask is one step of the fixed, topologically valid execution order the
// pose solver follows every frame (spec.md §4.4).
type PoseTask struct {
	Kind  PoseTaskKind
	Index int
}

// Definition is the immutable, finalized rig: every id->index reference has
// been resolved, every linked mesh bound to its parent Mesh, and the
// pose-task list computed (spec.md §3 "Finalization invariants").
type Definition struct {
	FormatVersion string

	Bones     []Bone
	Slots     []Slot
	IK        []IKConstraint
	Path      []PathConstraint
	Transform []TransformConstraint

	// Skins[0] is always the default skin.
	Skins []Skin

	Clips []Clip

	Curves *curve.Pool

	// PoseTasks is the fixed execution order the pose solver walks every
	// frame (spec.md §4.4). It never includes the root bone, which is always
	// posed first as a no-parent special case.
	PoseTasks []PoseTask

	// Index lookups, built once during finalization.
	BoneByID      map[string]int
	SlotByID      map[string]int
	IKByID        map[string]int
	PathByID      map[string]int
	TransformByID map[string]int
	SkinByName    map[string]int
	ClipByName    map[string]int
}

// DefaultSkin returns the rig's default skin (Skins[0]).
func (d *Definition) DefaultSkin() *Skin {
	if len(d.Skins) == 0 {
		return nil
	}
	return &d.Skins[0]
}

// Skin looks up a skin by name, or returns nil, false.
func (d *Definition) Skin(name string) (*Skin, bool) {
	i, ok := d.SkinByName[name]
	if !ok {
		return nil, false
	}
	return &d.Skins[i], true
}

// Clip looks up a clip by name, or returns nil, false.
func (d *Definition) Clip(name string) (*Clip, bool) {
	i, ok := d.ClipByName[name]
	if !ok {
		return nil, false
	}
	return &d.Clips[i], true
}

// NumSlots is a convenience accessor used throughout instance/draw-order
// construction.
func (d *Definition) NumSlots() int { return len(d.Slots) }

// NumBones is a convenience accessor used throughout instance construction.
func (d *Definition) NumBones() int { return len(d.Bones) }
