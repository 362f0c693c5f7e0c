package timeline

import (
	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/curve"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

// RotateEvaluator animates one bone's rotation channel (spec.md §4.3
// "Rotation").
type RotateEvaluator struct {
	BoneIndex int
	Frames    []definition.RotateKeyframe
	times     []float32
	lastKey   int
}

// NewRotateEvaluator builds an evaluator for one rotation timeline instance.
func NewRotateEvaluator(t definition.RotateTimeline) *RotateEvaluator {
	e := &RotateEvaluator{BoneIndex: t.BoneIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

// Evaluate writes this timeline's weighted rotation delta into c.
func (e *RotateEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	value := spmath.LerpDegrees(f0.Value, f1.Value, alpha)
	delta := spmath.ClampDegrees(value - def.Bones[e.BoneIndex].RotationDeg)
	c.AddRotation(e.BoneIndex, delta, w)
}

// TranslateEvaluator animates one bone's translation channel.
type TranslateEvaluator struct {
	BoneIndex int
	Frames    []definition.TranslateKeyframe
	times     []float32
	lastKey   int
}

// NewTranslateEvaluator builds an evaluator for one translation timeline instance.
func NewTranslateEvaluator(t definition.TranslateTimeline) *TranslateEvaluator {
	e := &TranslateEvaluator{BoneIndex: t.BoneIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *TranslateEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	x := spmath.Lerp(f0.X, f1.X, alpha)
	y := spmath.Lerp(f0.Y, f1.Y, alpha)
	rest := def.Bones[e.BoneIndex]
	delta := spmath.NewVec2(x-rest.X, y-rest.Y)
	c.AddTranslation(e.BoneIndex, delta, w)
}

// ScaleEvaluator animates one bone's scale channel.
type ScaleEvaluator struct {
	BoneIndex int
	Frames    []definition.ScaleKeyframe
	times     []float32
	lastKey   int
}

// NewScaleEvaluator builds an evaluator for one scale timeline instance.
func NewScaleEvaluator(t definition.ScaleTimeline) *ScaleEvaluator {
	e := &ScaleEvaluator{BoneIndex: t.BoneIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *ScaleEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	sx := spmath.Lerp(f0.X, f1.X, alpha)
	sy := spmath.Lerp(f0.Y, f1.Y, alpha)
	rest := def.Bones[e.BoneIndex]
	c.AddScale(e.BoneIndex, sx-rest.ScaleX, sy-rest.ScaleY, w)
}

// ShearEvaluator animates one bone's shear channel.
type ShearEvaluator struct {
	BoneIndex int
	Frames    []definition.ShearKeyframe
	times     []float32
	lastKey   int
}

// NewShearEvaluator builds an evaluator for one shear timeline instance.
func NewShearEvaluator(t definition.ShearTimeline) *ShearEvaluator {
	e := &ShearEvaluator{BoneIndex: t.BoneIndex, Frames: t.Frames}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

func (e *ShearEvaluator) Evaluate(def *definition.Definition, t, w float32, c *cache.Cache) {
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	x := spmath.Lerp(f0.X, f1.X, alpha)
	y := spmath.Lerp(f0.Y, f1.Y, alpha)
	rest := def.Bones[e.BoneIndex]
	delta := spmath.NewVec2(x-rest.ShearXDeg, y-rest.ShearYDeg)
	c.AddShear(e.BoneIndex, delta, w)
}
