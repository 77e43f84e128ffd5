package server

import (
	"sync"
	"time"

	"github.com/teemow/inboxagent/internal/pipeline"
)

// RunState tracks the inbox runs of a long-running process.
type RunState struct {
	mu       sync.RWMutex
	running  bool
	shutdown bool
	runs     int
	lastRun  time.Time
	lastTook time.Duration
	last     pipeline.Summary
}

// RunStatus is a point-in-time copy of a RunState.
type RunStatus struct {
	Running  bool              `json:"running"`
	Runs     int               `json:"runs"`
	LastRun  *time.Time        `json:"last_run,omitempty"`
	LastTook string            `json:"last_took,omitempty"`
	Last     *pipeline.Summary `json:"last_summary,omitempty"`
}

// NewRunState creates an idle RunState.
func NewRunState() *RunState {
	return &RunState{}
}

// Begin marks a run as started. It returns false if a run is already in
// progress or the process is shutting down; the caller must then skip the run.
func (s *RunState) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.shutdown {
		return false
	}
	s.running = true
	return true
}

// Finish records the outcome of the run started with Begin.
func (s *RunState) Finish(started time.Time, sum pipeline.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.runs++
	s.lastRun = started
	s.lastTook = time.Since(started)
	s.last = sum
}

// Shutdown marks the process as shutting down. No new run can begin.
func (s *RunState) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
}

// IsShutdown reports whether Shutdown was called.
func (s *RunState) IsShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shutdown
}

// Status returns a copy of the current state.
func (s *RunState) Status() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := RunStatus{Running: s.running, Runs: s.runs}
	if s.runs > 0 {
		last := s.last
		lastRun := s.lastRun
		st.LastRun = &lastRun
		st.LastTook = s.lastTook.Truncate(time.Millisecond).String()
		st.Last = &last
	}
	return st
}
