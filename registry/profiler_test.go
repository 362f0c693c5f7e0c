package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickDoesNotLogBeforeIntervalElapses(t *testing.T) {
	p := NewProfiler()
	logged := p.Tick(5)
	assert.False(t, logged)
	assert.Equal(t, 1, p.stepCalls)
	assert.Equal(t, 5, p.steppedTotal)
}

func TestTickLogsAndResetsAfterIntervalElapses(t *testing.T) {
	p := NewProfiler()
	p.lastTime = time.Now().Add(-2 * time.Second)
	p.stepCalls = 3
	p.steppedTotal = 30

	logged := p.Tick(10)

	assert.True(t, logged)
	assert.Equal(t, 0, p.stepCalls)
	assert.Equal(t, 0, p.steppedTotal)
}
