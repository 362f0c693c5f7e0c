// Package spine is the facade: Definition, Instance, EventSink, and the
// deterministic per-frame step that ties clip evaluation, cache commit, and
// pose solving together (spec.md §6 "External interfaces"). It is the only
// package a collaborator (the network/state-machine layer, a renderer) is
// expected to import directly; everything else is an implementation detail
// reachable only because Go has no access modifiers, matching the teacher's
// engine/engine.go facade idiom.
package spine

import (
	"fmt"

	"github.com/go-spine/spinecore/cache"
	"github.com/go-spine/spinecore/definition"
	"github.com/go-spine/spinecore/instance"
	"github.com/go-spine/spinecore/solver"
	"github.com/go-spine/spinecore/spineconfig"
	"github.com/go-spine/spinecore/spmath"
	"github.com/go-spine/spinecore/timeline"
)

// Definition is the immutable, finalized rig (spec.md §3).
type Definition = definition.Definition

// EventSink receives event dispatches synchronously from Step (spec.md §6
// "Event sink").
type EventSink = instance.EventSink

// Instance is the mutable per-session rig state plus its active clip
// tracks (spec.md §3 "Instance", §6 "Frame step"). The zero value is not
// usable; construct with New.
type Instance struct {
	def   *definition.Definition
	inst  *instance.Instance
	cache *cache.Cache
	cfg   spineconfig.Settings

	tracks []*Track

	// eventEvaluators is built once from def.Clips so GetNextEventTime never
	// allocates a new evaluator per query.
	eventEvaluators map[string]*timeline.EventEvaluator
}

// Track is one active (clip, weight, blend mode) activation (spec.md §6
// "Clip activation"). Obtained from Instance.ActivateClip; pass it back to
// Instance.DeactivateClip to stop it.
type Track struct {
	clipName      string
	clip          *timeline.ClipEvaluator
	weight        float32
	blendDiscrete bool
	speed         float32
	looping       bool
	t             float32
}

// Weight returns the track's current blend weight.
func (t *Track) Weight() float32 { return t.weight }

// SetWeight changes the track's blend weight for subsequent Step calls.
func (t *Track) SetWeight(w float32) { t.weight = w }

// SetSpeed changes the track's playback speed multiplier (1 = normal).
func (t *Track) SetSpeed(s float32) { t.speed = s }

// Time returns the track's current sample time.
func (t *Track) Time() float32 { return t.t }

// New constructs an Instance in rest pose with identity draw order and
// default solver/epsilon settings (spec.md §6 "Instance::new(def,
// event_sink)").
func New(def *definition.Definition, sink EventSink) *Instance {
	return NewWithSettings(def, sink, spineconfig.Default())
}

// NewWithSettings is New, but with explicit solver/epsilon tunables instead
// of spineconfig.Default().
func NewWithSettings(def *definition.Definition, sink EventSink, cfg spineconfig.Settings) *Instance {
	i := &Instance{
		def:             def,
		inst:            instance.New(def, sink),
		cache:           cache.New(),
		cfg:             cfg,
		eventEvaluators: map[string]*timeline.EventEvaluator{},
	}
	for idx := range def.Clips {
		c := &def.Clips[idx]
		i.eventEvaluators[c.Name] = timeline.NewEventEvaluator(c.Event)
	}
	return i
}

// ActivateClip begins playing clip on a new track at the given weight
// (spec.md §6 "Clip activation"). blendDiscrete controls whether discrete
// channels (attachment, draw order) blend at partial weight or only apply
// at w == 1 (spec.md §4.3). The clip's deform evaluators acquire their
// buffers immediately (spec.md §8 invariant 4).
func (i *Instance) ActivateClip(name string, weight float32, blendDiscrete, looping bool) (*Track, error) {
	clip, ok := i.def.Clip(name)
	if !ok {
		return nil, fmt.Errorf("spine: unknown clip %q", name)
	}
	ce := timeline.NewClipEvaluator(clip, i.def.NumSlots())
	ce.Attach(i.inst)
	track := &Track{
		clipName:      name,
		clip:          ce,
		weight:        weight,
		blendDiscrete: blendDiscrete,
		speed:         1,
		looping:       looping,
	}
	i.tracks = append(i.tracks, track)
	return track, nil
}

// DeactivateClip stops track, releasing its deform buffers (spec.md §8
// invariant 4). A no-op if track is not currently active on i.
func (i *Instance) DeactivateClip(track *Track) {
	for idx, t := range i.tracks {
		if t == track {
			t.clip.Detach(i.inst)
			i.tracks = append(i.tracks[:idx], i.tracks[idx+1:]...)
			return
		}
	}
}

// Tracks returns the instance's currently active tracks. The returned slice
// is owned by Instance; do not mutate it.
func (i *Instance) Tracks() []*Track { return i.tracks }

// Step advances every active track by dt and runs the deterministic
// per-frame pipeline: evaluate every clip, apply the accumulated cache,
// then solve the pose (spec.md §6 "Frame step"). Step satisfies
// registry.Stepper, so an Instance can be handed directly to a
// registry.Registry for concurrent multi-instance stepping.
func (i *Instance) Step(dt float32) {
	for _, track := range i.tracks {
		clip := track.clip.Clip
		prevT := track.t
		newT := prevT + dt*track.speed

		if track.looping && clip.Duration > 0 {
			for newT >= clip.Duration {
				track.clip.EvaluateRange(prevT, clip.Duration, track.weight, i.cfg, i.inst.Sink)
				newT -= clip.Duration
				prevT = 0
			}
		} else if clip.Duration > 0 && newT > clip.Duration {
			newT = clip.Duration
		}

		track.clip.Evaluate(i.def, i.inst, newT, track.weight, track.blendDiscrete, i.cache)
		track.clip.EvaluateRange(prevT, newT, track.weight, i.cfg, i.inst.Sink)
		track.t = newT
	}

	i.inst.ApplyCache(i.cache, i.cfg)
	solver.Solve(i.def, i.inst, i.cfg)
}

// SkinningPalette returns the instance's current world bone transforms, one
// per Definition bone (spec.md §6 "skinning_palette").
func (i *Instance) SkinningPalette() []spmath.Affine2 { return i.inst.Palette }

// Slots returns the instance's current slot states (spec.md §6 "slots").
func (i *Instance) Slots() []instance.SlotState { return i.inst.Slots }

// DrawOrder returns the instance's current slot draw-order permutation
// (spec.md §6 "draw_order").
func (i *Instance) DrawOrder() []int { return i.inst.DrawOrder }

// DeformFor returns the active deform buffer for (skin, slot, attachment),
// if one is registered (spec.md §6 "deform_for").
func (i *Instance) DeformFor(skinIndex, slotIndex int, attachmentName string) ([]float32, bool) {
	return i.inst.DeformFor(skinIndex, slotIndex, attachmentName)
}

// SetSkin switches the instance's active skin (spec.md §3 "Instance").
func (i *Instance) SetSkin(skinIndex int) { i.inst.SetSkin(skinIndex) }

// GetNextEventTime returns the time of clip's next name-matching event
// strictly after tStart, or false if none remain (spec.md §6
// "get_next_event_time").
func (i *Instance) GetNextEventTime(clipName, name string, tStart float32) (float32, bool) {
	ev, ok := i.eventEvaluators[clipName]
	if !ok {
		return 0, false
	}
	return ev.NextEventTime(name, tStart)
}

// Clone deep-copies the instance's mutable state and re-attaches a fresh
// set of track evaluators (each with its own curve-bracket scratch state)
// so the clone can play independently of the original (spec.md §3
// "Instances are cloneable").
func (i *Instance) Clone() (*Instance, error) {
	clonedInst, err := i.inst.Clone()
	if err != nil {
		return nil, err
	}
	clone := &Instance{
		def:             i.def,
		inst:            clonedInst,
		cache:           cache.New(),
		cfg:             i.cfg,
		eventEvaluators: i.eventEvaluators,
	}
	for _, t := range i.tracks {
		clip, _ := i.def.Clip(t.clipName)
		ce := timeline.NewClipEvaluator(clip, i.def.NumSlots())
		ce.Attach(clonedInst)
		clone.tracks = append(clone.tracks, &Track{
			clipName:      t.clipName,
			clip:          ce,
			weight:        t.weight,
			blendDiscrete: t.blendDiscrete,
			speed:         t.speed,
			looping:       t.looping,
			t:             t.t,
		})
	}
	return clone, nil
}
