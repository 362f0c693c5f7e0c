// Package registry models the external "manager/registry" design note
// (spec.md §9): a concrete collaborator that holds non-owning handles to
// live Instances and steps many of them in parallel, one worker.Task per
// Instance, so the "confined to one logical worker per frame" invariant
// (spec.md §5) is enforced by construction rather than by convention. This
// generalizes engine/scene.go's computePool pattern, which fans per-animator
// GPU prep work out to a DynamicWorkerPool and barrier-syncs with a
// sync.WaitGroup every frame; here the "GPU prep" becomes "clip evaluate +
// apply-cache + pose-solve", which is exactly what a Stepper's Step method
// performs.
package registry

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Stepper is anything that can advance one frame given a delta time. The
// root spine package's Instance satisfies this without registry needing to
// import it, which keeps registry free of any dependency on the facade
// package; the facade does not import registry either.
type Stepper interface {
	Step(dt float32)
}

// Handle is an opaque, non-owning reference to a registered Stepper.
type Handle uint64

// Registry holds non-owning handles to live Steppers and steps them
// concurrently across a bounded worker pool (spec.md §9). It never
// constructs or owns the Steppers it holds; Unregister simply drops the
// reference.
type Registry struct {
	mu       sync.RWMutex
	steppers map[Handle]Stepper
	nextID   Handle
	pool     worker.DynamicWorkerPool
	profiler *Profiler
}

// New builds a Registry backed by a worker pool sized to workers, matching
// the teacher's `s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)`
// construction in engine/scene/scene.go.
func New(workers int) *Registry {
	return &Registry{
		steppers: map[Handle]Stepper{},
		pool:     worker.NewDynamicWorkerPool(workers, 256, time.Second),
		profiler: NewProfiler(),
	}
}

// Register adds s under a freshly minted handle and returns it.
func (r *Registry) Register(s Stepper) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.steppers[id] = s
	return id
}

// Unregister drops the handle. It does not touch the underlying Stepper.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.steppers, h)
}

// Get returns the Stepper registered under h, if any.
func (r *Registry) Get(h Handle) (Stepper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steppers[h]
	return s, ok
}

// Count returns the number of currently registered Steppers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steppers)
}

// StepAll advances every registered Stepper by dt, one worker.Task per
// Stepper, and blocks until all have finished (spec.md §9). Each task
// touches exactly one Stepper, so no data race is possible between
// concurrently stepping Instances (spec.md §5 "Multiple Instances may run
// on different threads concurrently as long as each Instance is confined to
// one").
func (r *Registry) StepAll(dt float32) {
	r.mu.RLock()
	steppers := make([]Stepper, 0, len(r.steppers))
	for _, s := range r.steppers {
		steppers = append(steppers, s)
	}
	r.mu.RUnlock()

	var wg sync.WaitGroup
	for i, s := range steppers {
		wg.Add(1)
		sCap := s
		id := i
		r.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				sCap.Step(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()
	r.profiler.Tick(len(steppers))
}
