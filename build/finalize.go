package build

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/go-spine/spinecore/definition"
)

// supportedFormat is the range of Spine rig format versions this module
// understands (spec.md §1, "format version 3.8.79").
var supportedFormat = mustConstraint(">=3.8.0, <3.9.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FinalizeError reports a fatal load/finalization failure (spec.md §7.1):
// unresolved references, non-topological bone ordering, or a deform whose
// vertex count exceeds its attachment's base vertex count. It wraps the
// underlying cause so callers can errors.As against it.
type FinalizeError struct {
	Path string // caller-supplied file-path context, may be empty
	Err  error
}

func (e *FinalizeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("finalize %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("finalize: %v", e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

// Finalize resolves a Builder's shell into an immutable Definition: it binds
// linked meshes across skins, validates the bone-parent topology and the
// declared format version, applies the path/clipping vertex-count doubling
// (spec.md §9), and computes the pose-task execution order (spec.md §4.4).
// path is optional file-path context surfaced in the returned error.
func (b *Builder) Finalize(path string) (*definition.Definition, error) {
	if len(b.errs) > 0 {
		return nil, &FinalizeError{Path: path, Err: errors.Join(b.errs...)}
	}

	if v, err := semver.NewVersion(b.formatVersion); err != nil {
		return nil, &FinalizeError{Path: path, Err: fmt.Errorf("invalid format version %q: %w", b.formatVersion, err)}
	} else if !supportedFormat.Check(v) {
		return nil, &FinalizeError{Path: path, Err: fmt.Errorf("unsupported format version %q", b.formatVersion)}
	}

	if err := b.checkBoneTopology(); err != nil {
		return nil, &FinalizeError{Path: path, Err: err}
	}

	b.applyVertexCountDoubling()

	if err := b.resolveLinkedMeshes(); err != nil {
		return nil, &FinalizeError{Path: path, Err: err}
	}

	if err := b.checkDeformVertexCounts(); err != nil {
		return nil, &FinalizeError{Path: path, Err: err}
	}

	poseTasks := b.buildPoseTasks()

	return &definition.Definition{
		FormatVersion: b.formatVersion,
		Bones:         b.bones,
		Slots:         b.slots,
		IK:            b.ik,
		Path:          b.path,
		Transform:     b.transform,
		Skins:         b.skins,
		Clips:         b.clips,
		Curves:        b.curves,
		PoseTasks:     poseTasks,
		BoneByID:      b.boneByID,
		SlotByID:      b.slotByID,
		IKByID:        b.ikByID,
		PathByID:      b.pathByID,
		TransformByID: b.transformByID,
		SkinByName:    b.skinByName,
		ClipByName:    b.clipByName,
	}, nil
}

// checkBoneTopology validates the "parent_index < self_index, root at 0"
// invariant (spec.md §3).
func (b *Builder) checkBoneTopology() error {
	if len(b.bones) == 0 {
		return errors.New("definition has no bones")
	}
	if b.bones[0].Parent != -1 {
		return errors.New("bone 0 must be the root (parent -1)")
	}
	for i, bone := range b.bones {
		if i == 0 {
			continue
		}
		if bone.Parent < 0 || bone.Parent >= i {
			return fmt.Errorf("bone %q (index %d): parent index %d is not topologically before it", bone.ID, i, bone.Parent)
		}
	}
	return nil
}

// applyVertexCountDoubling preserves the source engine's undocumented
// doubling of vertex_count for Path and Clipping attachments (spec.md §9
// "Open question"). The doubling is kept verbatim, without attempting to
// infer why it exists, purely for compatibility with existing authored
// rigs.
func (b *Builder) applyVertexCountDoubling() {
	for si := range b.skins {
		for slotIdx, byName := range b.skins[si].Attachments {
			for name, att := range byName {
				switch a := att.(type) {
				case definition.PathAttachment:
					a.Vertices.VertexCount *= 2
					b.skins[si].Attachments[slotIdx][name] = a
				case definition.ClippingAttachment:
					a.Vertices.VertexCount *= 2
					b.skins[si].Attachments[slotIdx][name] = a
				}
			}
		}
	}
}

// resolveLinkedMeshes binds every LinkedMeshAttachment queued during AddAttachment
// to its parent Mesh, matching spec.md §3 invariant 2.
func (b *Builder) resolveLinkedMeshes() error {
	// meshSlotByName[skinIndex][meshName] = slot index holding that Mesh attachment.
	meshSlotByName := make([]map[string]int, len(b.skins))
	for si := range b.skins {
		meshSlotByName[si] = map[string]int{}
		for slotIdx, byName := range b.skins[si].Attachments {
			for name, att := range byName {
				if _, ok := att.(definition.MeshAttachment); ok {
					meshSlotByName[si][name] = slotIdx
				}
			}
		}
	}

	for _, pending := range b.pendingLinkedMesh {
		att := b.skins[pending.skinIndex].Attachments[pending.slotIndex][pending.attName]
		lm, ok := att.(definition.LinkedMeshAttachment)
		if !ok {
			continue
		}

		parentSkinIndex := 0
		if lm.ParentSkinName != "" {
			idx, ok := b.skinByName[lm.ParentSkinName]
			if !ok {
				return fmt.Errorf("linked mesh %q: unresolved parent skin %q", lm.Name(), lm.ParentSkinName)
			}
			parentSkinIndex = idx
		}

		meshSlot, ok := meshSlotByName[parentSkinIndex][lm.ParentMeshName]
		if !ok {
			return fmt.Errorf("linked mesh %q: parent mesh %q not found in skin %d", lm.Name(), lm.ParentMeshName, parentSkinIndex)
		}

		lm.ParentSkinIndex = parentSkinIndex
		lm.ParentMeshIndex = meshSlot
		b.skins[pending.skinIndex].Attachments[pending.slotIndex][pending.attName] = lm
	}
	return nil
}

// checkDeformVertexCounts validates that every deform keyframe's vertex
// array does not exceed its timeline's declared base-vertex count (spec.md
// §7.1).
func (b *Builder) checkDeformVertexCounts() error {
	for _, clip := range b.clips {
		for _, dt := range clip.Deform {
			maxLen := dt.BaseVertexCount * 2
			for _, kf := range dt.Frames {
				if len(kf.Vertices) > maxLen {
					return fmt.Errorf("clip %q deform %s/%s: keyframe has %d floats, exceeds base vertex capacity %d",
						clip.Name, dt.AttachmentName, b.slotName(dt.SlotIndex), len(kf.Vertices), maxLen)
				}
			}
		}
	}
	return nil
}

func (b *Builder) slotName(index int) string {
	if index < 0 || index >= len(b.slots) {
		return "?"
	}
	return b.slots[index].ID
}

// constraintOrder is one entry in the combined IK/Path/Transform ordering
// pass used to build the pose-task list.
type constraintOrder struct {
	kind  definition.PoseTaskKind
	index int
	order int
}

// buildPoseTasks computes the fixed, topologically valid execution order
// described in spec.md §4.4: constraints run in ascending Order (a stable
// sort, so ties keep IK, then path, then transform, each in declaration
// order), each
// preceded by its target and chain bones' ancestors; every remaining bone
// is then posed in parent-first order. Bones owned by a constraint are
// marked posed without an explicit Bone task, so a later bone task for the
// same index is a no-op (spec.md §4.4, "marking the manipulated bones
// fresh").
func (b *Builder) buildPoseTasks() []definition.PoseTask {
	n := len(b.bones)
	posed := make([]bool, n)
	posed[0] = true // root is posed outside the task list

	var tasks []definition.PoseTask

	var ensureBone func(i int)
	ensureBone = func(i int) {
		if i < 0 || i >= n || posed[i] {
			return
		}
		ensureBone(b.bones[i].Parent)
		tasks = append(tasks, definition.PoseTask{Kind: definition.PoseTaskBone, Index: i})
		posed[i] = true
	}

	var orders []constraintOrder
	for i, c := range b.ik {
		orders = append(orders, constraintOrder{definition.PoseTaskIK, i, c.Order})
	}
	for i, c := range b.path {
		orders = append(orders, constraintOrder{definition.PoseTaskPath, i, c.Order})
	}
	for i, c := range b.transform {
		orders = append(orders, constraintOrder{definition.PoseTaskTransform, i, c.Order})
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].order < orders[j].order })

	for _, co := range orders {
		switch co.kind {
		case definition.PoseTaskIK:
			c := b.ik[co.index]
			ensureBone(c.Target)
			for _, bi := range c.Bones {
				ensureBone(b.bones[bi].Parent)
			}
			tasks = append(tasks, definition.PoseTask{Kind: definition.PoseTaskIK, Index: co.index})
			for _, bi := range c.Bones {
				posed[bi] = true
			}
		case definition.PoseTaskPath:
			c := b.path[co.index]
			if c.Target >= 0 && c.Target < len(b.slots) {
				ensureBone(b.slots[c.Target].BoneIndex)
			}
			for _, bi := range c.Bones {
				ensureBone(b.bones[bi].Parent)
			}
			tasks = append(tasks, definition.PoseTask{Kind: definition.PoseTaskPath, Index: co.index})
			for _, bi := range c.Bones {
				posed[bi] = true
			}
		case definition.PoseTaskTransform:
			c := b.transform[co.index]
			ensureBone(c.Target)
			for _, bi := range c.Bones {
				ensureBone(b.bones[bi].Parent)
			}
			tasks = append(tasks, definition.PoseTask{Kind: definition.PoseTaskTransform, Index: co.index})
			for _, bi := range c.Bones {
				posed[bi] = true
			}
		}
	}

	for i := 1; i < n; i++ {
		ensureBone(i)
	}

	return tasks
}
