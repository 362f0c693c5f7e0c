package definition

// IKConstraint is an immutable inverse-kinematic constraint definition
// (spec.md §3). Bones holds 1 or 2 bone indices: a single-bone chain solves
// as IK1, a two-bone chain as IK2 (spec.md §4.4).
type IKConstraint struct {
	ID     string
	Index  int
	Order  int
	Bones  []int // 1 or 2 bone indices, ordered parent-first
	Target int   // target bone index

	Mix      float32 // rest mix, [0,1]
	Softness float32
	BendDir  int8 // +1 or -1

	Compress bool
	Stretch  bool
	Uniform  bool
}

// PathPositionMode selects how PathConstraint.Position is interpreted.
type PathPositionMode uint8

const (
	PathPositionPercent PathPositionMode = iota
	PathPositionFixed
)

// PathRotationMode selects how bones are rotated to follow the path.
type PathRotationMode uint8

const (
	PathRotationTangent PathRotationMode = iota
	PathRotationChain
	PathRotationChainScale
)

// PathSpacingMode selects how the bone chain is distributed along the path.
type PathSpacingMode uint8

const (
	PathSpacingLength PathSpacingMode = iota
	PathSpacingFixed
	PathSpacingPercent
)

// PathConstraint is an immutable path constraint definition (spec.md §3,
// §4.4).
type PathConstraint struct {
	ID     string
	Index  int
	Order  int
	Bones  []int // ordered bone-chain indices
	Target int   // target slot index (holds the path attachment)

	PositionMode PathPositionMode
	RotationMode PathRotationMode
	SpacingMode  PathSpacingMode

	Position       float32 // rest position
	Spacing        float32 // rest spacing
	RotationOffset float32 // rest rotation offset, degrees

	PositionMix float32
	RotationMix float32
}

// TransformConstraint is an immutable transform constraint definition
// (spec.md §3, §4.4).
type TransformConstraint struct {
	ID     string
	Index  int
	Order  int
	Bones  []int // managed bone-chain indices
	Target int   // target bone index

	DX, DY      float32
	DRotDeg     float32
	DScaleX, DScaleY float32
	DShearYDeg  float32

	PositionMix float32
	RotationMix float32
	ScaleMix    float32
	ShearMix    float32

	Local    bool
	Relative bool
}
