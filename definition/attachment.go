package definition

// AttachmentKind tags the Attachment sum type (spec.md §3, §9 "Polymorphic
// attachments" — modeled as a tagged sum dispatched by match, not virtual
// calls).
type AttachmentKind uint8

const (
	AttachmentRegion AttachmentKind = iota
	AttachmentBoundingBox
	AttachmentMesh
	AttachmentLinkedMesh
	AttachmentPath
	AttachmentPoint
	AttachmentClipping
)

// Attachment is the common interface every attachment kind implements. The
// only shared behavior is identity (name) and kind dispatch; everything else
// is reached through a type switch on Kind(), matching spec.md §9's guidance
// to avoid deep inheritance.
type Attachment interface {
	Kind() AttachmentKind
	Name() string
}

// AttachmentHeader is embedded by every concrete attachment to provide the
// name (and, where applicable, tint color) common to all kinds.
type AttachmentHeader struct {
	NameVal string
	Color   Color
}

// Name returns the attachment's identifier.
func (h AttachmentHeader) Name() string { return h.NameVal }

// Vertices holds a mesh/path/clipping attachment's vertex positions, either
// as a flat (unweighted) array or bound to bones with per-vertex weights
// (spec.md §3 "Attachment").
type Vertices struct {
	Weighted bool

	// VertexCount is the number of logical vertices (x,y pairs) as authored.
	// Finalize doubles it for Path and Clipping attachments, after which it
	// equals the number of floats in an unweighted Positions array.
	VertexCount int

	// Unweighted form: flat x,y pairs in the attachment's local space, two
	// floats per logical vertex.
	Positions []float32

	// Weighted form: BoneCounts[i] is how many bones influence vertex i;
	// BoneIndices/BoneLocal/BoneWeight are flattened in vertex order, one
	// entry per (vertex, influencing bone) pair.
	BoneCounts  []int
	BoneIndices []int
	BoneLocal   []float32 // x,y pairs, local to the influencing bone
	BoneWeight  []float32
}

// RegionAttachment is a single textured quad (spec.md §3).
type RegionAttachment struct {
	AttachmentHeader
	Path                          string
	X, Y, RotationDeg             float32
	ScaleX, ScaleY                float32
	Width, Height                 float32
}

func (RegionAttachment) Kind() AttachmentKind { return AttachmentRegion }

// BoundingBoxAttachment is a polygon used for hit-testing (spec.md §3).
type BoundingBoxAttachment struct {
	AttachmentHeader
	Vertices Vertices
}

func (BoundingBoxAttachment) Kind() AttachmentKind { return AttachmentBoundingBox }

// Equals compares two attachments for the loader's "same slot can keep its
// attachment across a skin swap" check. spec.md §9 notes the original source
// compared against the bitmap (region) type by copy-paste mistake; this
// compares against BoundingBox, the type this method actually belongs to.
func (b BoundingBoxAttachment) Equals(other Attachment) bool {
	if other == nil || other.Kind() != AttachmentBoundingBox {
		return false
	}
	return other.Name() == b.Name()
}

// MeshAttachment is a deformable triangle mesh (spec.md §3).
type MeshAttachment struct {
	AttachmentHeader
	Path        string
	RegionUVs   []float32 // u,v pairs, one per vertex
	Triangles   []uint16
	Vertices    Vertices
	HullLength  int
	Edges       []uint16
	Width, Height float32
}

func (MeshAttachment) Kind() AttachmentKind { return AttachmentMesh }

// LinkedMeshAttachment references a MeshAttachment owned by another skin
// (spec.md §3, §9 "LinkedMesh -> Mesh back-reference"). ParentSkinName and
// ParentMeshName are the unresolved textual reference as authored;
// ParentMeshIndex/ParentSkinIndex are filled in during finalization (see
// build.Finalize) into an immutable arena index, never a pointer cycle.
type LinkedMeshAttachment struct {
	AttachmentHeader
	Path           string
	ParentSkinName string // empty means "default skin"
	ParentMeshName string

	ParentSkinIndex int
	ParentMeshIndex int // slot index, in the resolved skin, holding the parent mesh

	// InheritDeform is true when deform timelines targeting the parent mesh
	// should also apply to this linked mesh.
	InheritDeform bool

	Width, Height float32
}

func (LinkedMeshAttachment) Kind() AttachmentKind { return AttachmentLinkedMesh }

// PathAttachment positions a bone chain along a spline (spec.md §3, §4.4).
type PathAttachment struct {
	AttachmentHeader
	Closed       bool
	ConstantSpeed bool
	Vertices     Vertices
	// Lengths holds the precomputed world-space length of each curve
	// segment (one entry per segment, not a running total), used directly when ConstantSpeed is false (spec.md §4.4
	// step 2, "the attachment stores per-curve lengths").
	Lengths []float32
}

func (PathAttachment) Kind() AttachmentKind { return AttachmentPath }

// PointAttachment marks a single attachment point, e.g. for effects or
// weapon sockets (spec.md §3).
type PointAttachment struct {
	AttachmentHeader
	X, Y, RotationDeg float32
}

func (PointAttachment) Kind() AttachmentKind { return AttachmentPoint }

// ClippingAttachment is a polygon that clips rendering of subsequent slots
// (spec.md §3).
type ClippingAttachment struct {
	AttachmentHeader
	EndSlotIndex int
	Vertices     Vertices
}

func (ClippingAttachment) Kind() AttachmentKind { return AttachmentClipping }
