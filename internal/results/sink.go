package results

import "sync"

// Sink is an append-only, sequence-addressed record store. It is safe for
// concurrent use: the crawl goroutine appends while presenters read.
type Sink struct {
	mu      sync.RWMutex
	records []Record
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Append assigns the next sequence id to r, stores it and returns the stored
// copy. Ids start at 0 and have no gaps.
func (s *Sink) Append(r Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.SequenceID = len(s.records)
	s.records = append(s.records, r)
	return r
}

// Get returns the record with the given sequence id.
func (s *Sink) Get(id int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 0 || id >= len(s.records) {
		return Record{}, false
	}
	return s.records[id], true
}

// All returns a snapshot of every record in sequence order.
func (s *Sink) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
