package definition

// BlendMode selects the slot's compositing mode. Rendering itself is out of
// scope (spec.md §1), but the value is carried through from the Definition to
// the Instance so an external renderer can consume it.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

// Slot is an immutable slot definition (spec.md §3).
type Slot struct {
	ID    string
	Index int

	BoneIndex int

	// DefaultAttachment is the attachment id selected at rest; may be empty.
	DefaultAttachment string

	DefaultColor Color
	// DarkColor is non-nil when this slot uses two-color tinting.
	DarkColor *Color

	Blend BlendMode
}
