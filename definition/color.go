package definition

// Color is an RGBA color in 0-255 space, matching spec.md §4.3's slot color
// channel ("Slot color: Vec4 in 0-255 space").
type Color struct {
	R, G, B, A float32
}

// White is the default slot color.
var White = Color{R: 255, G: 255, B: 255, A: 255}
