package crawler

import "github.com/jonesrussell/north-cloud/job-crawler/internal/results"

// Event is delivered on Run.Events. It is one of ProgressEvent, RecordEvent
// or TerminalEvent.
type Event interface {
	event()
}

// ProgressEvent is sent after each listing page is finished.
type ProgressEvent struct {
	Page       int
	TotalPages int
}

// RecordEvent is sent after a record has been appended to the sink.
type RecordEvent struct {
	Record results.Record
}

// TerminalEvent is the last event of a run.
type TerminalEvent struct {
	Status Status
	Err    error
}

func (ProgressEvent) event() {}
func (RecordEvent) event()   {}
func (TerminalEvent) event() {}
