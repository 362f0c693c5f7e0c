// Package build implements the two-phase Definition construction process:
// parse shell (this package's Builder) -> finalize (Finalize). This is the
// core's translation of the "deserialize with context" pattern an editor-JSON
// loader would otherwise use (spec.md §9): a plain Go builder that an
// external loader calls into while streaming a rig file, followed by one
// explicit finalize step that resolves every id into an index, binds linked
// meshes, and computes the pose-task list.
package build

import (
	"fmt"

	"github.com/go-spine/spinecore/curve"
	"github.com/go-spine/spinecore/definition"
)

// Builder accumulates a Definition's shell. Bones, slots, and constraints are
// resolved to indices as they are added (callers must add a bone's parent
// before the bone itself, matching the Definition invariant parent_index <
// self_index). Skins and clips are resolved against whatever bones/slots/
// constraints exist at the time they are added, plus a final cross-skin pass
// in Finalize for linked meshes.
type Builder struct {
	formatVersion string

	bones     []definition.Bone
	slots     []definition.Slot
	ik        []definition.IKConstraint
	path      []definition.PathConstraint
	transform []definition.TransformConstraint
	skins     []definition.Skin
	clips     []definition.Clip

	curves *curve.Pool

	boneByID      map[string]int
	slotByID      map[string]int
	ikByID        map[string]int
	pathByID      map[string]int
	transformByID map[string]int
	skinByName    map[string]int
	clipByName    map[string]int

	// pendingLinkedMesh records linked-mesh attachments that must be bound
	// after every skin has been added, since a linked mesh may reference a
	// skin added after it.
	pendingLinkedMesh []pendingLinkedMesh

	errs []error
}

type pendingLinkedMesh struct {
	skinIndex int
	slotIndex int
	attName   string
}

// New creates an empty Builder for a rig declaring the given format version
// (e.g. "3.8.79").
func New(formatVersion string) *Builder {
	return &Builder{
		formatVersion: formatVersion,
		curves:        curve.NewPool(),
		boneByID:      map[string]int{},
		slotByID:      map[string]int{},
		ikByID:        map[string]int{},
		pathByID:      map[string]int{},
		transformByID: map[string]int{},
		skinByName:    map[string]int{},
		clipByName:    map[string]int{},
	}
}

// fail records a fatal error to be returned from Finalize. Per spec.md §7,
// these are the only two categories that abort construction: malformed
// definitions and constraint/deform desynchronization.
func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// Curves returns the curve pool being built; callers add Bezier tables here
// before referencing their offset in a keyframe's CurveRef.
func (b *Builder) Curves() *curve.Pool { return b.curves }

// AddBone appends a bone. parentID must already have been added (empty
// string for the root bone, which must be the first bone added). Returns the
// new bone's index.
func (b *Builder) AddBone(id, parentID string, bone definition.Bone) int {
	parent := -1
	if parentID != "" {
		idx, ok := b.boneByID[parentID]
		if !ok {
			b.fail("bone %q: unresolved parent %q", id, parentID)
		}
		parent = idx
	} else if len(b.bones) != 0 {
		b.fail("bone %q: only the first bone may omit a parent", id)
	}

	index := len(b.bones)
	bone.ID = id
	bone.Index = index
	bone.Parent = parent
	b.bones = append(b.bones, bone)
	b.boneByID[id] = index
	return index
}

// AddSlot appends a slot bound to boneID, which must already have been
// added.
func (b *Builder) AddSlot(id, boneID string, slot definition.Slot) int {
	boneIdx, ok := b.boneByID[boneID]
	if !ok {
		b.fail("slot %q: unresolved bone %q", id, boneID)
	}
	index := len(b.slots)
	slot.ID = id
	slot.Index = index
	slot.BoneIndex = boneIdx
	b.slots = append(b.slots, slot)
	b.slotByID[id] = index
	return index
}

// AddIK appends an IK constraint. boneIDs and targetID must already have
// been added; an unresolved target is a fatal error (spec.md §7.1).
func (b *Builder) AddIK(id string, boneIDs []string, targetID string, c definition.IKConstraint) int {
	bones, ok := b.resolveBones(boneIDs)
	if !ok {
		b.fail("ik constraint %q: unresolved bone in chain", id)
	}
	target, ok := b.boneByID[targetID]
	if !ok {
		b.fail("ik constraint %q: unresolved target bone %q", id, targetID)
	}
	index := len(b.ik)
	c.ID = id
	c.Index = index
	c.Bones = bones
	c.Target = target
	b.ik = append(b.ik, c)
	b.ikByID[id] = index
	return index
}

// AddPath appends a path constraint. targetSlotID names the slot carrying
// the path attachment.
func (b *Builder) AddPath(id string, boneIDs []string, targetSlotID string, c definition.PathConstraint) int {
	bones, ok := b.resolveBones(boneIDs)
	if !ok {
		b.fail("path constraint %q: unresolved bone in chain", id)
	}
	target, ok := b.slotByID[targetSlotID]
	if !ok {
		b.fail("path constraint %q: unresolved target slot %q", id, targetSlotID)
	}
	index := len(b.path)
	c.ID = id
	c.Index = index
	c.Bones = bones
	c.Target = target
	b.path = append(b.path, c)
	b.pathByID[id] = index
	return index
}

// AddTransform appends a transform constraint.
func (b *Builder) AddTransform(id string, boneIDs []string, targetBoneID string, c definition.TransformConstraint) int {
	bones, ok := b.resolveBones(boneIDs)
	if !ok {
		b.fail("transform constraint %q: unresolved bone in chain", id)
	}
	target, ok := b.boneByID[targetBoneID]
	if !ok {
		b.fail("transform constraint %q: unresolved target bone %q", id, targetBoneID)
	}
	index := len(b.transform)
	c.ID = id
	c.Index = index
	c.Bones = bones
	c.Target = target
	b.transform = append(b.transform, c)
	b.transformByID[id] = index
	return index
}

func (b *Builder) resolveBones(ids []string) ([]int, bool) {
	out := make([]int, 0, len(ids))
	ok := true
	for _, id := range ids {
		idx, found := b.boneByID[id]
		if !found {
			ok = false
			continue
		}
		out = append(out, idx)
	}
	return out, ok
}

// AddSkin appends a new, empty skin and returns its index. Use AddAttachment
// to populate it.
func (b *Builder) AddSkin(name string) int {
	index := len(b.skins)
	b.skins = append(b.skins, definition.Skin{Name: name, Attachments: map[int]map[string]definition.Attachment{}})
	b.skinByName[name] = index
	return index
}

// AddAttachment binds an attachment into skinIndex at slotID. LinkedMesh
// attachments are additionally queued for cross-skin resolution in Finalize.
func (b *Builder) AddAttachment(skinIndex int, slotID string, att definition.Attachment) {
	slotIdx, ok := b.slotByID[slotID]
	if !ok {
		b.fail("skin %q: unresolved slot %q for attachment %q", b.skins[skinIndex].Name, slotID, att.Name())
		return
	}
	if b.skins[skinIndex].Attachments[slotIdx] == nil {
		b.skins[skinIndex].Attachments[slotIdx] = map[string]definition.Attachment{}
	}
	b.skins[skinIndex].Attachments[slotIdx][att.Name()] = att

	if _, isLinked := att.(definition.LinkedMeshAttachment); isLinked {
		b.pendingLinkedMesh = append(b.pendingLinkedMesh, pendingLinkedMesh{
			skinIndex: skinIndex,
			slotIndex: slotIdx,
			attName:   att.Name(),
		})
	}
}

// ClipBuilder accumulates one clip's timelines; bone/slot/constraint ids
// that don't resolve are silently dropped (retargeting, spec.md §7.2) rather
// than failing the whole clip.
type ClipBuilder struct {
	b    *Builder
	clip definition.Clip
}

// AddClip starts a new clip with the given name and duration.
func (b *Builder) AddClip(name string, duration float32) *ClipBuilder {
	return &ClipBuilder{b: b, clip: definition.Clip{Name: name, Duration: duration}}
}

// Rotate adds a rotation timeline for boneID, dropped silently if boneID is
// unknown.
func (cb *ClipBuilder) Rotate(boneID string, frames []definition.RotateKeyframe) *ClipBuilder {
	if idx, ok := cb.b.boneByID[boneID]; ok {
		cb.clip.Rotate = append(cb.clip.Rotate, definition.RotateTimeline{BoneIndex: idx, Frames: frames})
	}
	return cb
}

// Translate adds a translation timeline for boneID.
func (cb *ClipBuilder) Translate(boneID string, frames []definition.TranslateKeyframe) *ClipBuilder {
	if idx, ok := cb.b.boneByID[boneID]; ok {
		cb.clip.Translate = append(cb.clip.Translate, definition.TranslateTimeline{BoneIndex: idx, Frames: frames})
	}
	return cb
}

// Scale adds a scale timeline for boneID.
func (cb *ClipBuilder) Scale(boneID string, frames []definition.ScaleKeyframe) *ClipBuilder {
	if idx, ok := cb.b.boneByID[boneID]; ok {
		cb.clip.Scale = append(cb.clip.Scale, definition.ScaleTimeline{BoneIndex: idx, Frames: frames})
	}
	return cb
}

// Shear adds a shear timeline for boneID.
func (cb *ClipBuilder) Shear(boneID string, frames []definition.ShearKeyframe) *ClipBuilder {
	if idx, ok := cb.b.boneByID[boneID]; ok {
		cb.clip.Shear = append(cb.clip.Shear, definition.ShearTimeline{BoneIndex: idx, Frames: frames})
	}
	return cb
}

// Color adds a color timeline for slotID.
func (cb *ClipBuilder) Color(slotID string, frames []definition.ColorKeyframe) *ClipBuilder {
	if idx, ok := cb.b.slotByID[slotID]; ok {
		cb.clip.Color = append(cb.clip.Color, definition.ColorTimeline{SlotIndex: idx, Frames: frames})
	}
	return cb
}

// TwoColor adds a light+dark color timeline for slotID.
func (cb *ClipBuilder) TwoColor(slotID string, frames []definition.TwoColorKeyframe) *ClipBuilder {
	if idx, ok := cb.b.slotByID[slotID]; ok {
		cb.clip.TwoColor = append(cb.clip.TwoColor, definition.TwoColorTimeline{SlotIndex: idx, Frames: frames})
	}
	return cb
}

// Attachment adds an attachment-selection timeline for slotID.
func (cb *ClipBuilder) Attachment(slotID string, frames []definition.AttachmentKeyframe) *ClipBuilder {
	if idx, ok := cb.b.slotByID[slotID]; ok {
		cb.clip.Attachment = append(cb.clip.Attachment, definition.AttachmentTimeline{SlotIndex: idx, Frames: frames})
	}
	return cb
}

// IK adds an IK-parameter timeline. Unlike bone/slot timelines, an unresolved
// constraint id is fatal (spec.md §7.2): constraints are never retargeted.
func (cb *ClipBuilder) IK(constraintID string, frames []definition.IKKeyframe) *ClipBuilder {
	idx, ok := cb.b.ikByID[constraintID]
	if !ok {
		cb.b.fail("clip %q: unresolved ik constraint %q", cb.clip.Name, constraintID)
		return cb
	}
	cb.clip.IK = append(cb.clip.IK, definition.IKTimeline{ConstraintIndex: idx, Frames: frames})
	return cb
}

// PathMix adds a path position/rotation mix timeline.
func (cb *ClipBuilder) PathMix(constraintID string, frames []definition.PathMixKeyframe) *ClipBuilder {
	idx, ok := cb.b.pathByID[constraintID]
	if !ok {
		cb.b.fail("clip %q: unresolved path constraint %q", cb.clip.Name, constraintID)
		return cb
	}
	cb.clip.PathMix = append(cb.clip.PathMix, definition.PathMixTimeline{ConstraintIndex: idx, Frames: frames})
	return cb
}

// PathPosition adds a path position timeline.
func (cb *ClipBuilder) PathPosition(constraintID string, frames []definition.PathPositionKeyframe) *ClipBuilder {
	idx, ok := cb.b.pathByID[constraintID]
	if !ok {
		cb.b.fail("clip %q: unresolved path constraint %q", cb.clip.Name, constraintID)
		return cb
	}
	cb.clip.PathPosition = append(cb.clip.PathPosition, definition.PathPositionTimeline{ConstraintIndex: idx, Frames: frames})
	return cb
}

// PathSpacing adds a path spacing timeline.
func (cb *ClipBuilder) PathSpacing(constraintID string, frames []definition.PathSpacingKeyframe) *ClipBuilder {
	idx, ok := cb.b.pathByID[constraintID]
	if !ok {
		cb.b.fail("clip %q: unresolved path constraint %q", cb.clip.Name, constraintID)
		return cb
	}
	cb.clip.PathSpacing = append(cb.clip.PathSpacing, definition.PathSpacingTimeline{ConstraintIndex: idx, Frames: frames})
	return cb
}

// Transform adds a transform-constraint mix timeline.
func (cb *ClipBuilder) Transform(constraintID string, frames []definition.TransformKeyframe) *ClipBuilder {
	idx, ok := cb.b.transformByID[constraintID]
	if !ok {
		cb.b.fail("clip %q: unresolved transform constraint %q", cb.clip.Name, constraintID)
		return cb
	}
	cb.clip.Transform = append(cb.clip.Transform, definition.TransformTimeline{ConstraintIndex: idx, Frames: frames})
	return cb
}

// Deform adds a deform timeline keyed by (skin, slot, attachment). An
// unresolved skin or slot is fatal (spec.md §7.2, "fatal for ... deforms");
// the attachment name itself is resolved lazily against whatever skin ends
// up active, so it is not checked here.
func (cb *ClipBuilder) Deform(skinName, slotID, attachmentName string, baseVertexCount int, frames []definition.DeformKeyframe) *ClipBuilder {
	skinIdx, ok := cb.b.skinByName[skinName]
	if !ok {
		cb.b.fail("clip %q: unresolved skin %q for deform", cb.clip.Name, skinName)
		return cb
	}
	slotIdx, ok := cb.b.slotByID[slotID]
	if !ok {
		cb.b.fail("clip %q: unresolved slot %q for deform", cb.clip.Name, slotID)
		return cb
	}
	cb.clip.Deform = append(cb.clip.Deform, definition.DeformTimeline{
		SkinIndex:       skinIdx,
		SlotIndex:       slotIdx,
		AttachmentName:  attachmentName,
		BaseVertexCount: baseVertexCount,
		Frames:          frames,
	})
	return cb
}

// DrawOrder sets the clip's draw-order timeline. offsets are resolved
// against slot ids; an unresolved slot id drops that single offset entry
// rather than failing the keyframe.
func (cb *ClipBuilder) DrawOrder(frames []RawDrawOrderKeyframe) *ClipBuilder {
	out := &definition.DrawOrderTimeline{}
	for _, f := range frames {
		kf := definition.DrawOrderKeyframe{Time: f.Time}
		for _, o := range f.Offsets {
			if idx, ok := cb.b.slotByID[o.SlotID]; ok {
				kf.Offsets = append(kf.Offsets, definition.DrawOrderOffset{SlotIndex: idx, Offset: o.Offset})
			}
		}
		out.Frames = append(out.Frames, kf)
	}
	cb.clip.DrawOrder = out
	return cb
}

// RawDrawOrderOffset is a draw-order offset authored against a slot id,
// resolved to a slot index by ClipBuilder.DrawOrder.
type RawDrawOrderOffset struct {
	SlotID string
	Offset int
}

// RawDrawOrderKeyframe is one draw-order keyframe authored against slot ids.
type RawDrawOrderKeyframe struct {
	Time    float32
	Offsets []RawDrawOrderOffset
}

// Event sets the clip's event timeline. Events do not reference bones or
// slots, so no resolution is required.
func (cb *ClipBuilder) Event(frames []definition.EventKeyframe) *ClipBuilder {
	cb.clip.Event = &definition.EventTimeline{Frames: frames}
	return cb
}

// Done finalizes this clip into the builder and returns its index.
func (cb *ClipBuilder) Done() int {
	index := len(cb.b.clips)
	cb.b.clipByName[cb.clip.Name] = index
	cb.b.clips = append(cb.b.clips, cb.clip)
	return index
}
