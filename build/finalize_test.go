package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spine/spinecore/definition"
)

func twoBoneBuilder() *Builder {
	b := New("3.8.79")
	b.AddBone("root", "", definition.Bone{})
	b.AddBone("child", "root", definition.Bone{X: 10, Length: 50})
	return b
}

func TestFinalizeRejectsUnsupportedFormatVersion(t *testing.T) {
	b := twoBoneBuilder()
	b.formatVersion = "2.1.25"
	_, err := b.Finalize("rig.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format version")
}

func TestFinalizeRejectsMissingRoot(t *testing.T) {
	b := New("3.8.79")
	_, err := b.Finalize("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bones")
}

func TestFinalizeRejectsNonTopologicalParent(t *testing.T) {
	b := New("3.8.79")
	b.AddBone("root", "", definition.Bone{})
	b.bones = append(b.bones, definition.Bone{ID: "orphan", Index: 1, Parent: 5})
	b.boneByID["orphan"] = 1
	_, err := b.Finalize("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not topologically before it")
}

func TestAddBoneRequiresExistingParent(t *testing.T) {
	b := New("3.8.79")
	b.AddBone("root", "", definition.Bone{})
	b.AddBone("child", "missing-parent", definition.Bone{})
	_, err := b.Finalize("")
	require.Error(t, err)
}

func TestAddIKRequiresKnownTarget(t *testing.T) {
	b := twoBoneBuilder()
	b.AddIK("ik", []string{"child"}, "no-such-bone", definition.IKConstraint{Mix: 1})
	_, err := b.Finalize("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved target bone")
}

func TestFinalizeDoublesPathVertexCount(t *testing.T) {
	b := twoBoneBuilder()
	b.AddSlot("slot", "child", definition.Slot{ID: "slot"})
	skin := b.AddSkin("default")
	b.AddAttachment(skin, "slot", definition.PathAttachment{
		AttachmentHeader: definition.AttachmentHeader{NameVal: "path"},
		Vertices:         definition.Vertices{VertexCount: 3},
	})

	def, err := b.Finalize("")
	require.NoError(t, err)

	att, ok := def.Skins[0].Attachment(0, "path")
	require.True(t, ok)
	path := att.(definition.PathAttachment)
	assert.Equal(t, 6, path.Vertices.VertexCount)
}

func TestFinalizeResolvesLinkedMesh(t *testing.T) {
	b := twoBoneBuilder()
	b.AddSlot("slot", "child", definition.Slot{ID: "slot"})
	skin := b.AddSkin("default")
	b.AddAttachment(skin, "slot", definition.MeshAttachment{
		AttachmentHeader: definition.AttachmentHeader{NameVal: "parent-mesh"},
	})
	b.AddAttachment(skin, "slot", definition.LinkedMeshAttachment{
		AttachmentHeader: definition.AttachmentHeader{NameVal: "linked"},
		ParentMeshName:   "parent-mesh",
	})

	def, err := b.Finalize("")
	require.NoError(t, err)

	att, ok := def.Skins[0].Attachment(0, "linked")
	require.True(t, ok)
	lm := att.(definition.LinkedMeshAttachment)
	assert.Equal(t, 0, lm.ParentSkinIndex)
	assert.Equal(t, 0, lm.ParentMeshIndex)
}

func TestFinalizeRejectsOversizedDeformKeyframe(t *testing.T) {
	b := twoBoneBuilder()
	b.AddSlot("slot", "child", definition.Slot{ID: "slot"})

	cb := b.AddClip("clip", 1)
	cb.clip.Deform = append(cb.clip.Deform, definition.DeformTimeline{
		SlotIndex:       0,
		AttachmentName:  "mesh",
		BaseVertexCount: 2,
		Frames: []definition.DeformKeyframe{
			{Time: 0, Vertices: []float32{0, 0, 0, 0, 0, 0}},
		},
	})
	cb.Done()

	_, err := b.Finalize("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds base vertex capacity")
}

func TestBuildPoseTasksOmitsConstraintOwnedBones(t *testing.T) {
	b := twoBoneBuilder()
	b.AddBone("target", "root", definition.Bone{X: 60})
	b.AddIK("ik", []string{"child"}, "target", definition.IKConstraint{Mix: 1})

	def, err := b.Finalize("")
	require.NoError(t, err)

	var ikSeen, boneSeenForChild bool
	for _, task := range def.PoseTasks {
		if task.Kind == definition.PoseTaskIK {
			ikSeen = true
		}
		if task.Kind == definition.PoseTaskBone && task.Index == 1 {
			boneSeenForChild = true
		}
	}
	assert.True(t, ikSeen)
	assert.False(t, boneSeenForChild, "child bone is owned by the ik task, it should not also get a plain Bone task")
}
