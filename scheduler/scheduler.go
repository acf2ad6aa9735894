// Package scheduler runs the periodic maintenance jobs: the rate-limit
// record sweep and the memory-cache janitor. Job lifecycle is owned by the
// application root so tests never leak tickers.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	run      func()
}

// Scheduler manages periodic tasks for the application
type Scheduler struct {
	jobs    []job
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewScheduler creates an empty task scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		stopCh: make(chan struct{}),
	}
}

// AddJob registers a periodic job. Must be called before Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, run func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start begins the scheduler's operations
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.scheduleInterval(j)
	}
}

// Stop halts all jobs and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) scheduleInterval(j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	slog.Debug("maintenance job scheduled", "job", j.name, "interval", j.interval)

	for {
		select {
		case <-ticker.C:
			j.run()
		case <-s.stopCh:
			return
		}
	}
}
