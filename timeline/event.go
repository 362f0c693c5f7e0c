package timeline

import (
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
)

// EventEvaluator dispatches a clip's event keyframes. It never participates
// in the pose cache (spec.md §4.3 "Event timeline"); instead it is driven
// directly by evaluate_range once per frame with the previous and current
// times.
type EventEvaluator struct {
	Frames []definition.EventKeyframe
}

// NewEventEvaluator builds the clip's single event evaluator, if the clip
// has one.
func NewEventEvaluator(t *definition.EventTimeline) *EventEvaluator {
	if t == nil {
		return nil
	}
	return &EventEvaluator{Frames: t.Frames}
}

// EvaluateRange dispatches every event whose time falls in (t0, t1], with
// the documented t0 == 0 && firstEvent.time == 0 special case expanding the
// lower bound to inclusive (spec.md §4.3, §8 invariant 5). Dispatch is
// suppressed entirely when w is below threshold (spec.md §4.3 "Below a
// configurable event_mix_threshold, suppress dispatch").
func (e *EventEvaluator) EvaluateRange(t0, t1, w, threshold float32, sink instance.EventSink) {
	if e == nil || len(e.Frames) == 0 || sink == nil {
		return
	}
	if w < threshold {
		return
	}
	lowInclusive := t0 == 0 && e.Frames[0].Time == 0
	for _, f := range e.Frames {
		if f.Time > t1 {
			break
		}
		if f.Time > t0 || (lowInclusive && f.Time == 0) {
			sink.Dispatch(f.Name, f.Int, f.Float, f.Str)
		}
	}
}

// NextEventTime returns the time of the first keyframe named name strictly
// after tStart (strict '>', not '>=', so the event you're currently
// standing on never re-fires), matching the original engine's
// EventEvaluator::GetNextEventTime (SPEC_FULL.md "Supplemented features" #1).
func (e *EventEvaluator) NextEventTime(name string, tStart float32) (float32, bool) {
	if e == nil {
		return 0, false
	}
	for _, f := range e.Frames {
		if f.Time > tStart && f.Name == name {
			return f.Time, true
		}
	}
	return 0, false
}
