package definition

// RotateTimeline animates one bone's rotation channel.
type RotateTimeline struct {
	BoneIndex int
	Frames    []RotateKeyframe
}

// TranslateTimeline animates one bone's translation channel.
type TranslateTimeline struct {
	BoneIndex int
	Frames    []TranslateKeyframe
}

// ScaleTimeline animates one bone's scale channel.
type ScaleTimeline struct {
	BoneIndex int
	Frames    []ScaleKeyframe
}

// ShearTimeline animates one bone's shear channel.
type ShearTimeline struct {
	BoneIndex int
	Frames    []ShearKeyframe
}

// ColorTimeline animates one slot's color channel.
type ColorTimeline struct {
	SlotIndex int
	Frames    []ColorKeyframe
}

// TwoColorTimeline animates one slot's light+dark color channel.
type TwoColorTimeline struct {
	SlotIndex int
	Frames    []TwoColorKeyframe
}

// AttachmentTimeline animates one slot's selected attachment (discrete).
type AttachmentTimeline struct {
	SlotIndex int
	Frames    []AttachmentKeyframe
}

// IKTimeline animates one IK constraint's parameters.
type IKTimeline struct {
	ConstraintIndex int
	Frames          []IKKeyframe
}

// PathMixTimeline animates one path constraint's position/rotation mix.
type PathMixTimeline struct {
	ConstraintIndex int
	Frames          []PathMixKeyframe
}

// PathPositionTimeline animates one path constraint's position.
type PathPositionTimeline struct {
	ConstraintIndex int
	Frames          []PathPositionKeyframe
}

// PathSpacingTimeline animates one path constraint's spacing.
type PathSpacingTimeline struct {
	ConstraintIndex int
	Frames          []PathSpacingKeyframe
}

// TransformTimeline animates one transform constraint's mixes.
type TransformTimeline struct {
	ConstraintIndex int
	Frames          []TransformKeyframe
}

// DeformTimeline animates the dense vertex offsets of one (skin, slot,
// attachment) triple (spec.md §3 "Clip" — "per-deform (skin -> slot ->
// attachment -> frames)").
type DeformTimeline struct {
	SkinIndex       int
	SlotIndex       int
	AttachmentName  string
	// BaseVertexCount is the attachment's deform-input vertex count as passed
	// to ClipBuilder.Deform (Finalize does not double it); Finalize rejects a
	// deform keyframe carrying more than BaseVertexCount*2 floats.
	BaseVertexCount int
	Frames          []DeformKeyframe
}

// DrawOrderTimeline animates slot draw order (discrete, at most one active
// keyframe applies per evaluation).
type DrawOrderTimeline struct {
	Frames []DrawOrderKeyframe
}

// EventTimeline holds an ordered, non-interpolated list of event firings. It
// never participates in the pose cache (spec.md §4.3).
type EventTimeline struct {
	Frames []EventKeyframe
}

// Clip is an immutable bundle of per-channel timelines sharing a duration
// (spec.md §3 "Clip").
type Clip struct {
	Name     string
	Duration float32

	Rotate       []RotateTimeline
	Translate    []TranslateTimeline
	Scale        []ScaleTimeline
	Shear        []ShearTimeline
	Color        []ColorTimeline
	TwoColor     []TwoColorTimeline
	Attachment   []AttachmentTimeline
	IK           []IKTimeline
	PathMix      []PathMixTimeline
	PathPosition []PathPositionTimeline
	PathSpacing  []PathSpacingTimeline
	Transform    []TransformTimeline
	Deform       []DeformTimeline
	DrawOrder    *DrawOrderTimeline
	Event        *EventTimeline
}
