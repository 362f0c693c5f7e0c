package timeline

import (
	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/curve"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/spmath"
)

// DeformEvaluator animates the dense vertex offsets of one (skin, slot,
// attachment) deform target (spec.md §4.3 "Deform"). Unlike every other
// continuous channel it does not write into the cache's keyed accumulators:
// the deform buffer it writes into lives on the Instance and is shared by
// every other deform evaluator (from other active clips) targeting the same
// key, so the cache only tracks which keys have already been zeroed this
// frame (spec.md §9 "Deform buffers shared across evaluators").
type DeformEvaluator struct {
	Key             definition.DeformKey
	BaseVertexCount int
	Frames          []definition.DeformKeyframe
	times           []float32
	lastKey         int
	attached        bool
}

// NewDeformEvaluator builds an evaluator for one deform timeline instance.
func NewDeformEvaluator(t definition.DeformTimeline) *DeformEvaluator {
	e := &DeformEvaluator{
		Key:             definition.DeformKey{SkinIndex: t.SkinIndex, SlotIndex: t.SlotIndex, AttachmentName: t.AttachmentName},
		BaseVertexCount: t.BaseVertexCount,
		Frames:          t.Frames,
	}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

// Attach registers this evaluator's interest in its deform buffer, creating
// it if this is the first evaluator to target the key (spec.md §8
// invariant 4). Called once when the owning clip becomes active.
func (e *DeformEvaluator) Attach(inst *instance.Instance) {
	if e.attached {
		return
	}
	inst.AcquireDeform(e.Key, e.BaseVertexCount*2)
	e.attached = true
}

// Detach releases this evaluator's reference, freeing the buffer if it was
// the last one. Called once when the owning clip is deactivated.
func (e *DeformEvaluator) Detach(inst *instance.Instance) {
	if !e.attached {
		return
	}
	inst.ReleaseDeform(e.Key)
	e.attached = false
}

// Evaluate blends this timeline's vertex deltas into the shared buffer. The
// first evaluator to touch the key this frame (tracked via c.TouchDeform)
// zeroes it first so every contributor blends additively onto a clean base.
func (e *DeformEvaluator) Evaluate(def *definition.Definition, t, w float32, inst *instance.Instance, c *cache.Cache) {
	buf, ok := inst.Deform[e.Key]
	if !ok {
		return
	}
	if !c.TouchDeform(e.Key) {
		for i := range buf.Values {
			buf.Values[i] = 0
		}
	}
	if len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	k0, k1 := bracket(e.times, t, &e.lastKey)
	f0, f1 := e.Frames[k0], e.Frames[k1]
	alpha := curve.Eval(def.Curves, curve.Type(f0.Curve.Type), f0.Curve.Offset, f0.Time, f1.Time, t)
	for i := range buf.Values {
		v0, v1 := vertexAt(f0.Vertices, i), vertexAt(f1.Vertices, i)
		lerped := spmath.Lerp(v0, v1, alpha)
		if w == 1 {
			buf.Values[i] = lerped
		} else {
			buf.Values[i] += (lerped - buf.Values[i]) * w
		}
	}
}

func vertexAt(vertices []float32, i int) float32 {
	if i < len(vertices) {
		return vertices[i]
	}
	return 0
}
