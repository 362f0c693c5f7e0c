package timeline

import (
	"sort"

	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/definition"
)

// DrawOrderEvaluator animates the skeleton's slot draw order (spec.md §4.3
// "Draw order (discrete)").
type DrawOrderEvaluator struct {
	Frames   []definition.DrawOrderKeyframe
	times    []float32
	lastKey  int
	numSlots int
}

// NewDrawOrderEvaluator builds the clip's single draw-order evaluator, if
// the clip has one.
func NewDrawOrderEvaluator(t *definition.DrawOrderTimeline, numSlots int) *DrawOrderEvaluator {
	if t == nil {
		return nil
	}
	e := &DrawOrderEvaluator{Frames: t.Frames, numSlots: numSlots}
	for _, f := range t.Frames {
		e.times = append(e.times, f.Time)
	}
	return e
}

// Evaluate overwrites c's committed draw order with the active keyframe's
// permutation, or leaves c untouched if t precedes the first keyframe.
func (e *DrawOrderEvaluator) Evaluate(t, w float32, blendDiscrete bool, c *cache.Cache) {
	if e == nil || len(e.Frames) == 0 || t < e.times[0] {
		return
	}
	if !blendDiscrete && w != 1 {
		return
	}
	k, _ := bracket(e.times, t, &e.lastKey)
	c.SetDrawOrder(buildDrawOrder(e.Frames[k].Offsets, e.numSlots))
}

// buildDrawOrder implements spec.md §4.3's offset-list-to-permutation
// algorithm: slots not named by an offset keep their relative order
// ("unchanged"), slots named by an offset move to slotIndex+offset, and the
// unchanged slots backfill every remaining hole from the end of the array
// inward. Offsets are expected in ascending slot-index order, matching how
// the source format emits them; this is defensively re-sorted.
func buildDrawOrder(offsets []definition.DrawOrderOffset, numSlots int) []int {
	if len(offsets) == 0 {
		out := make([]int, numSlots)
		for i := range out {
			out[i] = i
		}
		return out
	}

	sorted := append([]definition.DrawOrderOffset(nil), offsets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SlotIndex < sorted[j].SlotIndex })

	drawOrder := make([]int, numSlots)
	for i := range drawOrder {
		drawOrder[i] = -1
	}
	unchanged := make([]int, 0, numSlots-len(sorted))

	originalIndex := 0
	for _, o := range sorted {
		for originalIndex != o.SlotIndex {
			unchanged = append(unchanged, originalIndex)
			originalIndex++
		}
		drawOrder[originalIndex+o.Offset] = originalIndex
		originalIndex++
	}
	for originalIndex < numSlots {
		unchanged = append(unchanged, originalIndex)
		originalIndex++
	}

	ui := len(unchanged)
	for i := numSlots - 1; i >= 0; i-- {
		if drawOrder[i] == -1 {
			ui--
			drawOrder[i] = unchanged[ui]
		}
	}
	return drawOrder
}
