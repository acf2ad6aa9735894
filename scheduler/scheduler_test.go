package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler()

	var ticks int64
	s.AddJob("test-job", 10*time.Millisecond, func() {
		atomic.AddInt64(&ticks, 1)
	})

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&ticks) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopHaltsJobs(t *testing.T) {
	s := NewScheduler()

	var ticks int64
	s.AddJob("test-job", 10*time.Millisecond, func() {
		atomic.AddInt64(&ticks, 1)
	})

	s.Start()
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	after := atomic.LoadInt64(&ticks)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, after, atomic.LoadInt64(&ticks), "no ticks after Stop")
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	s := NewScheduler()

	var ticks int64
	s.AddJob("test-job", 10*time.Millisecond, func() {
		atomic.AddInt64(&ticks, 1)
	})

	s.Start()
	s.Start()
	defer s.Stop()

	time.Sleep(25 * time.Millisecond)

	// A double Start must not double the tick rate.
	assert.LessOrEqual(t, atomic.LoadInt64(&ticks), int64(3))
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := NewScheduler()
	s.AddJob("never-started", time.Minute, func() {})

	assert.NotPanics(t, func() { s.Stop() })
}
