package timeline

import (
	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spineconfig"
)

// ClipEvaluator bundles one per-channel evaluator for every timeline in a
// definition.Clip, built once when the clip becomes active on a track and
// reused for every frame it stays active (spec.md §4 "Clip evaluation").
type ClipEvaluator struct {
	Clip *definition.Clip

	rotate       []*RotateEvaluator
	translate    []*TranslateEvaluator
	scale        []*ScaleEvaluator
	shear        []*ShearEvaluator
	color        []*ColorEvaluator
	twoColor     []*TwoColorEvaluator
	attachment   []*AttachmentEvaluator
	ik           []*IKEvaluator
	pathMix      []*PathMixEvaluator
	pathPosition []*PathPositionEvaluator
	pathSpacing  []*PathSpacingEvaluator
	transform    []*TransformEvaluator
	deform       []*DeformEvaluator
	drawOrder    *DrawOrderEvaluator
	event        *EventEvaluator
}

// NewClipEvaluator constructs every channel evaluator for clip. numSlots is
// needed up front by the draw-order evaluator to size its identity
// permutation.
func NewClipEvaluator(clip *definition.Clip, numSlots int) *ClipEvaluator {
	e := &ClipEvaluator{Clip: clip}
	for _, tl := range clip.Rotate {
		e.rotate = append(e.rotate, NewRotateEvaluator(tl))
	}
	for _, tl := range clip.Translate {
		e.translate = append(e.translate, NewTranslateEvaluator(tl))
	}
	for _, tl := range clip.Scale {
		e.scale = append(e.scale, NewScaleEvaluator(tl))
	}
	for _, tl := range clip.Shear {
		e.shear = append(e.shear, NewShearEvaluator(tl))
	}
	for _, tl := range clip.Color {
		e.color = append(e.color, NewColorEvaluator(tl))
	}
	for _, tl := range clip.TwoColor {
		e.twoColor = append(e.twoColor, NewTwoColorEvaluator(tl))
	}
	for _, tl := range clip.Attachment {
		e.attachment = append(e.attachment, NewAttachmentEvaluator(tl))
	}
	for _, tl := range clip.IK {
		e.ik = append(e.ik, NewIKEvaluator(tl))
	}
	for _, tl := range clip.PathMix {
		e.pathMix = append(e.pathMix, NewPathMixEvaluator(tl))
	}
	for _, tl := range clip.PathPosition {
		e.pathPosition = append(e.pathPosition, NewPathPositionEvaluator(tl))
	}
	for _, tl := range clip.PathSpacing {
		e.pathSpacing = append(e.pathSpacing, NewPathSpacingEvaluator(tl))
	}
	for _, tl := range clip.Transform {
		e.transform = append(e.transform, NewTransformEvaluator(tl))
	}
	for _, tl := range clip.Deform {
		e.deform = append(e.deform, NewDeformEvaluator(tl))
	}
	e.drawOrder = NewDrawOrderEvaluator(clip.DrawOrder, numSlots)
	e.event = NewEventEvaluator(clip.Event)
	return e
}

// Attach acquires this clip's deform buffers on inst. Called once when the
// clip becomes active on a track (spec.md §8 invariant 4).
func (e *ClipEvaluator) Attach(inst *instance.Instance) {
	for _, d := range e.deform {
		d.Attach(inst)
	}
}

// Detach releases this clip's deform buffers from inst. Called once when
// the clip is removed from a track.
func (e *ClipEvaluator) Detach(inst *instance.Instance) {
	for _, d := range e.deform {
		d.Detach(inst)
	}
}

// Evaluate drives every continuous and discrete channel (everything except
// events, which are driven separately by EvaluateRange) at time t with
// weight w into c.
func (e *ClipEvaluator) Evaluate(def *definition.Definition, inst *instance.Instance, t, w float32, blendDiscrete bool, c *cache.Cache) {
	for _, ev := range e.rotate {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.translate {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.scale {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.shear {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.color {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.twoColor {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.attachment {
		ev.Evaluate(t, w, blendDiscrete, c)
	}
	for _, ev := range e.ik {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.pathMix {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.pathPosition {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.pathSpacing {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.transform {
		ev.Evaluate(def, t, w, c)
	}
	for _, ev := range e.deform {
		ev.Evaluate(def, t, w, inst, c)
	}
	e.drawOrder.Evaluate(t, w, blendDiscrete, c)
}

// EvaluateRange dispatches this clip's events whose time falls in (t0, t1]
// (spec.md §4.3 "Event timeline"). cfg supplies the mix-weight threshold
// below which dispatch is suppressed.
func (e *ClipEvaluator) EvaluateRange(t0, t1, w float32, cfg spineconfig.Settings, sink instance.EventSink) {
	e.event.EvaluateRange(t0, t1, w, cfg.EventMixThreshold, sink)
}

// NextEventTime returns the time of clip's next named event strictly after
// tStart (SPEC_FULL.md "Supplemented features" #1).
func (e *ClipEvaluator) NextEventTime(name string, tStart float32) (float32, bool) {
	return e.event.NextEventTime(name, tStart)
}
