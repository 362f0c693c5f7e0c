package timeline

import (
	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/curve"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

// ColorEvaluator animates one slot's color channel.
type ColorEvaluator struct {
	SlotIndex int
	Frames    []definition.ColorKeyframe
	times     []float32
	lastKey   int
}

// NewColorEvaluator builds an evaluator for one color timeline instance.
func NewColorEvaluator(t definition.ColorTimeline) *ColorEvaluator {
	e := &ColorEvaluator{SlotIndex: t.SlotIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *ColorEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	value := spmath.NewVec4(
		spmath.Lerp(f0.R, f1.R, alpha),
		spmath.Lerp(f0.G, f1.G, alpha),
		spmath.Lerp(f0.B, f1.B, alpha),
		spmath.Lerp(f0.A, f1.A, alpha),
	)
	rest := def.Slots[e.SlotIndex].DefaultColor
	delta := value.Sub(spmath.NewVec4(rest.R, rest.G, rest.B, rest.A))
	c.AddColor(e.SlotIndex, delta, w)
}

// TwoColorEvaluator animates one slot's light+dark color channel.
type TwoColorEvaluator struct {
	SlotIndex int
	Frames    []definition.TwoColorKeyframe
	times     []float32
	lastKey   int
}

// NewTwoColorEvaluator builds an evaluator for one two-color timeline instance.
func NewTwoColorEvaluator(t definition.TwoColorTimeline) *TwoColorEvaluator {
	e := &TwoColorEvaluator{SlotIndex: t.SlotIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *TwoColorEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	light := spmath.NewVec4(
		spmath.Lerp(f0.R, f1.R, alpha),
		spmath.Lerp(f0.G, f1.G, alpha),
		spmath.Lerp(f0.B, f1.B, alpha),
		spmath.Lerp(f0.A, f1.A, alpha),
	)
	dark := spmath.NewVec3(
		spmath.Lerp(f0.R2, f1.R2, alpha),
		spmath.Lerp(f0.G2, f1.G2, alpha),
		spmath.Lerp(f0.B2, f1.B2, alpha),
	)
	rest := def.Slots[e.SlotIndex]
	lightDelta := light.Sub(spmath.NewVec4(rest.DefaultColor.R, rest.DefaultColor.G, rest.DefaultColor.B, rest.DefaultColor.A))
	darkRest := spmath.Vec3{}
	if rest.DarkColor != nil {
		darkRest = spmath.NewVec3(rest.DarkColor.R, rest.DarkColor.G, rest.DarkColor.B)
	}
	darkDelta := dark.Sub(darkRest)
	c.AddTwoColor(e.SlotIndex, lightDelta, darkDelta, w)
}

// AttachmentEvaluator animates one slot's attachment selection (spec.md
// §4.3 "Slot attachment", discrete). The commit logic lives in package
// instance (ApplyCache), which owns the cross-evaluator top-weight-group
// rule; this evaluator only ever pushes a vote.
type AttachmentEvaluator struct {
	SlotIndex int
	Frames    []definition.AttachmentKeyframe
	times     []float32
	lastKey   int
}

// NewAttachmentEvaluator builds an evaluator for one attachment timeline instance.
func NewAttachmentEvaluator(t definition.AttachmentTimeline) *AttachmentEvaluator {
	e := &AttachmentEvaluator{SlotIndex: t.SlotIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

// Evaluate pushes this timeline's active-keyframe vote into c, unless
// blendDiscrete is false and w is not exactly 1 (spec.md §4.3: "If
// blendDiscrete == false and w != 1, skip").
func (e *AttachmentEvaluator) Evaluate(t, w float32, blendDiscrete bool, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	if !blendDiscrete && w != 1 {
		return
	}
	k, _ := bracket(e.times, t, &e.lastKey)
	c.AddAttachmentVote(e.SlotIndex, e.Frames[k].AttachmentName, w)
}
