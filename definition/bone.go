package definition

// TransformMode selects how a bone's world transform is derived from its
// parent, per spec.md §4.4 "Bone pose".
type TransformMode uint8

const (
	// Normal composes the full parent transform with the local transform.
	Normal TransformMode = iota
	// OnlyTranslation inherits only the parent's translation; rotation and
	// scale are local only.
	OnlyTranslation
	// NoRotationOrReflection strips rotation/reflection from the parent's
	// upper 2x2 before composing.
	NoRotationOrReflection
	// NoScale renormalizes the parent's x-axis direction and flips the
	// y-axis if the parent reflects.
	NoScale
	// NoScaleOrReflection renormalizes the parent's x-axis direction without
	// the reflection flip.
	NoScaleOrReflection
)

// Bone is an immutable rest-pose bone definition (spec.md §3).
type Bone struct {
	ID     string
	Index  int
	Parent int // -1 for the root bone

	X, Y              float32
	RotationDeg       float32
	ScaleX, ScaleY    float32
	ShearXDeg, ShearYDeg float32
	Length            float32

	Mode TransformMode
}
