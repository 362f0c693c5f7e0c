package timeline

import (
	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/curve"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

// IKEvaluator animates one IK constraint's parameter timeline (spec.md §4.3
// "IK timeline").
type IKEvaluator struct {
	ConstraintIndex int
	Frames          []definition.IKKeyframe
	times           []float32
	lastKey         int
}

// NewIKEvaluator builds an evaluator for one IK parameter timeline instance.
func NewIKEvaluator(t definition.IKTimeline) *IKEvaluator {
	e := &IKEvaluator{ConstraintIndex: t.ConstraintIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *IKEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	rest := def.IK[e.ConstraintIndex]
	restBendPositive := float32(0)
	if rest.BendDir >= 0 {
		restBendPositive = 1
	}
	restCompress, restStretch := boolFloat(rest.Compress), boolFloat(rest.Stretch)

	delta := cache.IKAccum{
		Mix:          spmath.Lerp(f0.Mix, f1.Mix, alpha) - rest.Mix,
		Softness:     spmath.Lerp(f0.Softness, f1.Softness, alpha) - rest.Softness,
		BendPositive: spmath.Lerp(f0.BendPositive, f1.BendPositive, alpha) - restBendPositive,
		Compress:     spmath.Lerp(f0.Compress, f1.Compress, alpha) - restCompress,
		Stretch:      spmath.Lerp(f0.Stretch, f1.Stretch, alpha) - restStretch,
	}
	c.AddIK(e.ConstraintIndex, delta, w)
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// PathMixEvaluator animates one path constraint's position/rotation mix.
type PathMixEvaluator struct {
	ConstraintIndex int
	Frames          []definition.PathMixKeyframe
	times           []float32
	lastKey         int
}

// NewPathMixEvaluator builds an evaluator for one path-mix timeline instance.
func NewPathMixEvaluator(t definition.PathMixTimeline) *PathMixEvaluator {
	e := &PathMixEvaluator{ConstraintIndex: t.ConstraintIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *PathMixEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	rest := def.Path[e.ConstraintIndex]
	posMix := spmath.Lerp(f0.PositionMix, f1.PositionMix, alpha) - rest.PositionMix
	rotMix := spmath.Lerp(f0.RotationMix, f1.RotationMix, alpha) - rest.RotationMix
	c.AddPathMix(e.ConstraintIndex, spmath.NewVec2(posMix, rotMix), w)
}

// PathPositionEvaluator animates one path constraint's position.
type PathPositionEvaluator struct {
	ConstraintIndex int
	Frames          []definition.PathPositionKeyframe
	times           []float32
	lastKey         int
}

// NewPathPositionEvaluator builds an evaluator for one path-position timeline instance.
func NewPathPositionEvaluator(t definition.PathPositionTimeline) *PathPositionEvaluator {
	e := &PathPositionEvaluator{ConstraintIndex: t.ConstraintIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *PathPositionEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	value := spmath.Lerp(f0.Value, f1.Value, alpha)
	c.AddPathPosition(e.ConstraintIndex, value-def.Path[e.ConstraintIndex].Position, w)
}

// PathSpacingEvaluator animates one path constraint's spacing.
type PathSpacingEvaluator struct {
	ConstraintIndex int
	Frames          []definition.PathSpacingKeyframe
	times           []float32
	lastKey         int
}

// NewPathSpacingEvaluator builds an evaluator for one path-spacing timeline instance.
func NewPathSpacingEvaluator(t definition.PathSpacingTimeline) *PathSpacingEvaluator {
	e := &PathSpacingEvaluator{ConstraintIndex: t.ConstraintIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *PathSpacingEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	value := spmath.Lerp(f0.Value, f1.Value, alpha)
	c.AddPathSpacing(e.ConstraintIndex, value-def.Path[e.ConstraintIndex].Spacing, w)
}

// TransformEvaluator animates one transform constraint's mix timeline.
type TransformEvaluator struct {
	ConstraintIndex int
	Frames          []definition.TransformKeyframe
	times           []float32
	lastKey         int
}

// NewTransformEvaluator builds an evaluator for one transform-constraint timeline instance.
func NewTransformEvaluator(t definition.TransformTimeline) *TransformEvaluator {
	e := &TransformEvaluator{ConstraintIndex: t.ConstraintIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *TransformEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	rest := def.Transform[e.ConstraintIndex]
	delta := spmath.NewVec4(
		spmath.Lerp(f0.PositionMix, f1.PositionMix, alpha)-rest.PositionMix,
		spmath.Lerp(f0.RotationMix, f1.RotationMix, alpha)-rest.RotationMix,
		spmath.Lerp(f0.ScaleMix, f1.ScaleMix, alpha)-rest.ScaleMix,
		spmath.Lerp(f0.ShearMix, f1.ShearMix, alpha)-rest.ShearMix,
	)
	c.AddTransform(e.ConstraintIndex, delta, w)
}
