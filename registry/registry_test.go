package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStepper struct {
	mu    sync.Mutex
	calls int
	last  float32
}

func (s *countingStepper) Step(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = dt
}

func (s *countingStepper) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRegisterUnregisterAndCount(t *testing.T) {
	r := New(2)
	a := &countingStepper{}
	b := &countingStepper{}

	h1 := r.Register(a)
	r.Register(b)
	assert.Equal(t, 2, r.Count())

	got, ok := r.Get(h1)
	require.True(t, ok)
	assert.Same(t, a, got)

	r.Unregister(h1)
	assert.Equal(t, 1, r.Count())
	_, ok = r.Get(h1)
	assert.False(t, ok)
}

func TestStepAllAdvancesEveryRegisteredStepper(t *testing.T) {
	r := New(4)
	steppers := make([]*countingStepper, 8)
	for i := range steppers {
		steppers[i] = &countingStepper{}
		r.Register(steppers[i])
	}

	r.StepAll(1.0 / 60.0)

	for _, s := range steppers {
		assert.Equal(t, 1, s.Calls())
		assert.InDelta(t, 1.0/60.0, s.last, 1e-6)
	}
}

func TestStepAllNeverDoubleStepsAStepper(t *testing.T) {
	r := New(4)
	var total int32
	for i := 0; i < 16; i++ {
		r.Register(stepperFunc(func(dt float32) { atomic.AddInt32(&total, 1) }))
	}

	r.StepAll(0.016)

	assert.EqualValues(t, 16, total)
}

type stepperFunc func(dt float32)

func (f stepperFunc) Step(dt float32) { f(dt) }
