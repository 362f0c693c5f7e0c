package registry

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks step throughput and memory statistics for a Registry,
// adapted from engine/profiler/profiler.go's frame-rate tracker: "frames"
// become "StepAll calls" and the tracked count becomes the number of
// Steppers advanced, rather than GPU draw calls.
type Profiler struct {
	stepCalls      int
	steppedTotal   int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that logs at most once per second.
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick records one StepAll call that advanced n Steppers, logging
// aggregate stats once updateInterval has elapsed. Returns true if it
// logged.
func (p *Profiler) Tick(n int) bool {
	p.stepCalls++
	p.steppedTotal += n
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	stepsPerSec := float64(p.stepCalls) / elapsed.Seconds()
	instancesPerSec := float64(p.steppedTotal) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
	}

	log.Printf("[registry] StepAll/s: %.2f | Instances/s: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d us) | Sys: %.2f MB",
		stepsPerSec, instancesPerSec, allocMB, allocRateMB, gcCount, lastPauseUs, sysMB)

	p.stepCalls = 0
	p.steppedTotal = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
