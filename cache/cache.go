// Package cache implements the per-frame weighted accumulator described in
// spec.md §4.5. Every active clip evaluator writes weighted deltas into a
// Cache bucket keyed by bone/slot/constraint index. The continuous buckets
// combine by addition, so their write order within one frame never affects
// the committed result (spec.md §8 invariant 2, "cache commutativity"). The
// discrete buckets are order-sensitive: DrawOrder keeps the last write, and
// among attachment votes of equal top weight the last one wins.
//
// Cache holds no reference to a Definition or Instance — it is pure
// accumulated state, cleared by Reset after every commit (spec.md §3
// "Cache is cleared after every commit").
package cache

import (
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/spmath"
)

// ScaleAccum accumulates weighted scale deltas plus the total weight seen.
// Commit adds the deltas to the rest scale, dividing them by WSum when WSum
// exceeds 1, so the unweighted remainder stays at the rest scale.
type ScaleAccum struct {
	SX, SY float32
	WSum   float32
}

// TwoColorAccum accumulates a slot's light+dark tint deltas.
type TwoColorAccum struct {
	Light spmath.Vec4
	Dark  spmath.Vec3
}

// IKAccum accumulates an IK constraint's five parameter channels. The three
// boolean-valued fields are stored as weighted floats and re-thresholded at
// commit (spec.md §4.3, ">= 0.5").
type IKAccum struct {
	Mix, Softness                    float32
	BendPositive, Compress, Stretch float32
}

// AttachmentVote is one weighted vote for a slot's active attachment
// (spec.md §4.3 "Slot attachment").
type AttachmentVote struct {
	SlotIndex      int
	AttachmentName string
	Weight         float32
}

// Cache is one instance's per-frame scratch accumulator (spec.md §3, §4.5).
type Cache struct {
	Rotation    map[int]float32
	Translation map[int]spmath.Vec2
	Scale       map[int]ScaleAccum
	Shear       map[int]spmath.Vec2

	Color    map[int]spmath.Vec4
	TwoColor map[int]TwoColorAccum

	IK           map[int]IKAccum
	PathMix      map[int]spmath.Vec2
	PathPosition map[int]float32
	PathSpacing  map[int]float32
	Transform    map[int]spmath.Vec4

	Attachments []AttachmentVote

	// DrawOrder is the last-committed permutation from a discrete draw-order
	// evaluator this frame, or nil if none fired (commit then leaves the
	// instance's current draw order unchanged).
	DrawOrder []int

	// DeformTouched tracks which deform keys have already been zeroed this
	// frame, so the first of possibly several deform evaluators targeting
	// the same key starts from a clean buffer and later ones blend
	// additively on top of it (spec.md §4.3 "Deform").
	DeformTouched map[definition.DeformKey]bool
}

// New returns an empty Cache with its maps allocated.
func New() *Cache {
	return &Cache{
		Rotation:     map[int]float32{},
		Translation:  map[int]spmath.Vec2{},
		Scale:        map[int]ScaleAccum{},
		Shear:        map[int]spmath.Vec2{},
		Color:        map[int]spmath.Vec4{},
		TwoColor:     map[int]TwoColorAccum{},
		IK:           map[int]IKAccum{},
		PathMix:      map[int]spmath.Vec2{},
		PathPosition: map[int]float32{},
		PathSpacing:  map[int]float32{},
		Transform:    map[int]spmath.Vec4{},
		DeformTouched: map[definition.DeformKey]bool{},
	}
}

// TouchDeform reports whether key has already been zeroed this frame and
// marks it touched. The first evaluator to touch a key each frame gets
// false back and must reset the buffer to zero before blending into it.
func (c *Cache) TouchDeform(key definition.DeformKey) (alreadyTouched bool) {
	alreadyTouched = c.DeformTouched[key]
	c.DeformTouched[key] = true
	return alreadyTouched
}

// Reset clears every bucket without releasing the map backing storage, so
// repeated Step calls don't churn the allocator.
func (c *Cache) Reset() {
	for k := range c.Rotation {
		delete(c.Rotation, k)
	}
	for k := range c.Translation {
		delete(c.Translation, k)
	}
	for k := range c.Scale {
		delete(c.Scale, k)
	}
	for k := range c.Shear {
		delete(c.Shear, k)
	}
	for k := range c.Color {
		delete(c.Color, k)
	}
	for k := range c.TwoColor {
		delete(c.TwoColor, k)
	}
	for k := range c.IK {
		delete(c.IK, k)
	}
	for k := range c.PathMix {
		delete(c.PathMix, k)
	}
	for k := range c.PathPosition {
		delete(c.PathPosition, k)
	}
	for k := range c.PathSpacing {
		delete(c.PathSpacing, k)
	}
	for k := range c.Transform {
		delete(c.Transform, k)
	}
	c.Attachments = c.Attachments[:0]
	c.DrawOrder = nil
	for k := range c.DeformTouched {
		delete(c.DeformTouched, k)
	}
}

// AddRotation accumulates a weighted rotation delta for boneIndex.
func (c *Cache) AddRotation(boneIndex int, deltaDeg, w float32) {
	c.Rotation[boneIndex] += deltaDeg * w
}

// AddTranslation accumulates a weighted translation delta for boneIndex.
func (c *Cache) AddTranslation(boneIndex int, delta spmath.Vec2, w float32) {
	v := c.Translation[boneIndex]
	c.Translation[boneIndex] = v.Add(delta.Mulf(w))
}

// AddScale accumulates a weighted scale delta for boneIndex.
func (c *Cache) AddScale(boneIndex int, dsx, dsy, w float32) {
	a := c.Scale[boneIndex]
	a.SX += dsx * w
	a.SY += dsy * w
	a.WSum += w
	c.Scale[boneIndex] = a
}

// AddShear accumulates a weighted shear delta for boneIndex.
func (c *Cache) AddShear(boneIndex int, delta spmath.Vec2, w float32) {
	v := c.Shear[boneIndex]
	c.Shear[boneIndex] = v.Add(delta.Mulf(w))
}

// AddColor accumulates a weighted color delta for slotIndex.
func (c *Cache) AddColor(slotIndex int, delta spmath.Vec4, w float32) {
	v := c.Color[slotIndex]
	c.Color[slotIndex] = v.Add(delta.Mulf(w))
}

// AddTwoColor accumulates weighted light/dark color deltas for slotIndex.
func (c *Cache) AddTwoColor(slotIndex int, light spmath.Vec4, dark spmath.Vec3, w float32) {
	a := c.TwoColor[slotIndex]
	a.Light = a.Light.Add(light.Mulf(w))
	a.Dark = a.Dark.Add(dark.Mulf(w))
	c.TwoColor[slotIndex] = a
}

// AddIK accumulates a weighted IK parameter delta for constraintIndex.
func (c *Cache) AddIK(constraintIndex int, delta IKAccum, w float32) {
	a := c.IK[constraintIndex]
	a.Mix += delta.Mix * w
	a.Softness += delta.Softness * w
	a.BendPositive += delta.BendPositive * w
	a.Compress += delta.Compress * w
	a.Stretch += delta.Stretch * w
	c.IK[constraintIndex] = a
}

// AddPathMix accumulates a weighted path position/rotation mix delta.
func (c *Cache) AddPathMix(constraintIndex int, delta spmath.Vec2, w float32) {
	v := c.PathMix[constraintIndex]
	c.PathMix[constraintIndex] = v.Add(delta.Mulf(w))
}

// AddPathPosition accumulates a weighted path position delta.
func (c *Cache) AddPathPosition(constraintIndex int, delta, w float32) {
	c.PathPosition[constraintIndex] += delta * w
}

// AddPathSpacing accumulates a weighted path spacing delta.
func (c *Cache) AddPathSpacing(constraintIndex int, delta, w float32) {
	c.PathSpacing[constraintIndex] += delta * w
}

// AddTransform accumulates a weighted transform-constraint mix delta.
func (c *Cache) AddTransform(constraintIndex int, delta spmath.Vec4, w float32) {
	v := c.Transform[constraintIndex]
	c.Transform[constraintIndex] = v.Add(delta.Mulf(w))
}

// AddAttachmentVote records a weighted vote for a slot's active attachment
// (spec.md §4.3 "Slot attachment"). name == "" means "hide the slot".
func (c *Cache) AddAttachmentVote(slotIndex int, name string, w float32) {
	c.Attachments = append(c.Attachments, AttachmentVote{SlotIndex: slotIndex, AttachmentName: name, Weight: w})
}

// SetDrawOrder overwrites the committed draw-order permutation for this
// frame. Only the discrete draw-order evaluator calls this, and at most once
// per evaluate (spec.md §4.3 "Draw order (discrete)").
func (c *Cache) SetDrawOrder(order []int) {
	c.DrawOrder = order
}
