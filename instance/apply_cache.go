package instance

import (
	"sort"

	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/spineconfig"
)

// ApplyCache commits a frame's accumulated cache into instance state and
// clears the cache (spec.md §4.5 "ApplyCache writes these into instance
// state under the rules in §4.3 and clears everything"). It must run after
// every active clip evaluator has written its contribution and before the
// pose solver executes the pose-task list (spec.md §5 "Ordering
// guarantees").
func (inst *Instance) ApplyCache(c *cache.Cache, cfg spineconfig.Settings) {
	def := inst.Def

	inst.resetBonesToRest()
	for boneIdx, delta := range c.Rotation {
		inst.Bones[boneIdx].RotationDeg += delta
	}
	for boneIdx, delta := range c.Translation {
		inst.Bones[boneIdx].X += delta.X()
		inst.Bones[boneIdx].Y += delta.Y()
	}
	for boneIdx, delta := range c.Shear {
		inst.Bones[boneIdx].ShearXDeg += delta.X()
		inst.Bones[boneIdx].ShearYDeg += delta.Y()
	}
	for boneIdx, a := range c.Scale {
		rest := def.Bones[boneIdx]
		factor := float32(0)
		if a.WSum > 0 {
			clamped := a.WSum
			if clamped > 1 {
				clamped = 1
			} else if clamped < 0 {
				clamped = 0
			}
			factor = clamped / a.WSum
		}
		inst.Bones[boneIdx].ScaleX = rest.ScaleX + a.SX*factor
		inst.Bones[boneIdx].ScaleY = rest.ScaleY + a.SY*factor
	}

	inst.resetSlotsToRest()
	for slotIdx, delta := range c.Color {
		rest := inst.Slots[slotIdx].Color
		inst.Slots[slotIdx].Color = rest.Add(delta)
	}
	for slotIdx, delta := range c.TwoColor {
		rest := inst.Slots[slotIdx].Color
		inst.Slots[slotIdx].Color = rest.Add(delta.Light)
		if inst.Slots[slotIdx].DarkColor != nil {
			restDark := *inst.Slots[slotIdx].DarkColor
			merged := restDark.Add(delta.Dark)
			inst.Slots[slotIdx].DarkColor = &merged
		}
	}

	for idx, a := range c.IK {
		rest := def.IK[idx]
		inst.IK[idx] = IKState{
			Mix:          rest.Mix + a.Mix,
			Softness:     rest.Softness + a.Softness,
			BendPositive: (boolToFloat(rest.BendDir >= 0) + a.BendPositive) >= 0.5,
			Compress:     (boolToFloat(rest.Compress) + a.Compress) >= 0.5,
			Stretch:      (boolToFloat(rest.Stretch) + a.Stretch) >= 0.5,
		}
	}
	for idx, a := range c.PathMix {
		rest := def.Path[idx]
		inst.Path[idx].PositionMix = rest.PositionMix + a.X()
		inst.Path[idx].RotationMix = rest.RotationMix + a.Y()
	}
	for idx, delta := range c.PathPosition {
		inst.Path[idx].Position = def.Path[idx].Position + delta
	}
	for idx, delta := range c.PathSpacing {
		inst.Path[idx].Spacing = def.Path[idx].Spacing + delta
	}
	for idx, a := range c.Transform {
		rest := def.Transform[idx]
		inst.Transform[idx] = TransformState{
			PositionMix: rest.PositionMix + a.X(),
			RotationMix: rest.RotationMix + a.Y(),
			ScaleMix:    rest.ScaleMix + a.Z(),
			ShearMix:    rest.ShearMix + a.W(),
		}
	}

	inst.commitAttachments(c.Attachments)

	if c.DrawOrder != nil {
		inst.DrawOrder = c.DrawOrder
	}

	c.Reset()
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// commitAttachments implements spec.md §4.3 "Slot attachment": sort by
// weight, apply the contiguous top-weight group (in original order, so the
// last vote for a given slot wins among ties), then reset every other slot
// that received a vote this frame back to its Definition default.
func (inst *Instance) commitAttachments(votes []cache.AttachmentVote) {
	if len(votes) == 0 {
		return
	}
	sorted := make([]cache.AttachmentVote, len(votes))
	copy(sorted, votes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Weight < sorted[j].Weight })

	topWeight := sorted[len(sorted)-1].Weight
	start := len(sorted)
	for start > 0 && sorted[start-1].Weight == topWeight {
		start--
	}
	top := sorted[start:]

	touchedByVote := map[int]bool{}
	for _, v := range sorted {
		touchedByVote[v.SlotIndex] = true
	}
	touchedByTop := map[int]bool{}
	for _, v := range top {
		inst.Slots[v.SlotIndex].AttachmentName = v.AttachmentName
		touchedByTop[v.SlotIndex] = true
	}
	for slotIdx := range touchedByVote {
		if !touchedByTop[slotIdx] {
			inst.Slots[slotIdx].AttachmentName = inst.Def.Slots[slotIdx].DefaultAttachment
		}
	}
}
