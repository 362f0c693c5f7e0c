package definition

// CurveRef holds a keyframe's interpolation type and, for Bezier curves, its
// offset into the Definition's curve.Pool. The two are separate fields, not
// bit-packed. The type tag is a plain uint8 mirroring curve.Type and is
// translated by the timeline package, which owns the evaluation logic.
type CurveRef struct {
	Type   uint8 // mirrors curve.Type: 0=Linear, 1=Stepped, 2=Bezier
	Offset uint32
}

// RotateKeyframe is one keyframe of a bone's rotation timeline.
type RotateKeyframe struct {
	Time  float32
	Value float32 // degrees
	Curve CurveRef
}

// TranslateKeyframe is one keyframe of a bone's translation timeline.
type TranslateKeyframe struct {
	Time  float32
	X, Y  float32
	Curve CurveRef
}

// ScaleKeyframe is one keyframe of a bone's scale timeline.
type ScaleKeyframe struct {
	Time  float32
	X, Y  float32
	Curve CurveRef
}

// ShearKeyframe is one keyframe of a bone's shear timeline.
type ShearKeyframe struct {
	Time  float32
	X, Y  float32
	Curve CurveRef
}

// ColorKeyframe is one keyframe of a slot's color timeline.
type ColorKeyframe struct {
	Time        float32
	R, G, B, A  float32
	Curve       CurveRef
}

// TwoColorKeyframe is one keyframe of a slot's light+dark color timeline.
type TwoColorKeyframe struct {
	Time           float32
	R, G, B, A     float32
	R2, G2, B2     float32
	Curve          CurveRef
}

// AttachmentKeyframe is one keyframe of a slot's attachment timeline. It is
// discrete: there is no interpolation, only a step to a named attachment (or
// empty string to hide the slot) at Time.
type AttachmentKeyframe struct {
	Time           float32
	AttachmentName string
}

// IKKeyframe is one keyframe of an IK constraint's parameter timeline. The
// boolean fields are stored pre-lerped as 0/1 floats per spec.md §4.3 ("IK
// timeline: ... Booleans are lerped as floats and re-thresholded at
// commit").
type IKKeyframe struct {
	Time                                          float32
	Mix, Softness                                 float32
	BendPositive, Compress, Stretch               float32
	Curve                                         CurveRef
}

// PathMixKeyframe is one keyframe of a path constraint's position/rotation
// mix timeline.
type PathMixKeyframe struct {
	Time              float32
	PositionMix       float32
	RotationMix       float32
	Curve             CurveRef
}

// PathPositionKeyframe is one keyframe of a path constraint's position
// timeline.
type PathPositionKeyframe struct {
	Time  float32
	Value float32
	Curve CurveRef
}

// PathSpacingKeyframe is one keyframe of a path constraint's spacing
// timeline.
type PathSpacingKeyframe struct {
	Time  float32
	Value float32
	Curve CurveRef
}

// TransformKeyframe is one keyframe of a transform constraint's mix
// timeline.
type TransformKeyframe struct {
	Time                                          float32
	PositionMix, RotationMix, ScaleMix, ShearMix   float32
	Curve                                          CurveRef
}

// DeformKeyframe is one keyframe of a mesh deform timeline: a full dense
// vertex array (spec.md §4.3 "Deform").
type DeformKeyframe struct {
	Time     float32
	Vertices []float32
	Curve    CurveRef
}

// DrawOrderOffset moves a single slot by Offset positions relative to
// identity draw order (spec.md §4.3 "Draw-order construction from offsets").
type DrawOrderOffset struct {
	SlotIndex int
	Offset    int
}

// DrawOrderKeyframe is one keyframe of the draw-order timeline.
type DrawOrderKeyframe struct {
	Time    float32
	Offsets []DrawOrderOffset // empty means identity order
}

// EventKeyframe is one instance of an event firing at Time.
type EventKeyframe struct {
	Time  float32
	Name  string
	Int   int32
	Float float32
	Str   string
}
