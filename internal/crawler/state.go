package crawler

import (
	"sync"
	"time"
)

// Status is the lifecycle position of a run.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a point-in-time snapshot of a run.
type State struct {
	RunID       string    `json:"run_id"`
	Status      Status    `json:"status"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	Records     int       `json:"records"`
	Cancelled   bool      `json:"cancelled"`
	Done        bool      `json:"done"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
}

// runState is the worker-owned mutable state behind State snapshots.
type runState struct {
	mu    sync.RWMutex
	state State
	err   error
}

func (s *runState) snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *runState) running(totalPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = StatusRunning
	s.state.TotalPages = totalPages
}

func (s *runState) pageDone(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentPage = page
}

func (s *runState) recordAdded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Records++
}

func (s *runState) finish(status Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = status
	s.state.Done = status == StatusCompleted
	s.state.Cancelled = status == StatusCancelled
	s.state.FinishedAt = time.Now()
	s.err = err
	if err != nil {
		s.state.Error = err.Error()
	}
}

func (s *runState) error() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
