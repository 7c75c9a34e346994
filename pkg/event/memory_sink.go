package event

import "sync"

// MemorySink accumulates records in memory, safe for concurrent use by
// multiple tracing workers. It is the sink pkg/batch's tests and the
// concrete scenarios in this module's own test suite use in place of a
// persistent tabular store, which per this project's scope is an
// external collaborator this module only defines an interface for.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
	nextID  int64
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends record, assigning it the next RayID if one was not
// already set (RayID zero means "assign one").
func (s *MemorySink) Emit(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if record.Ray.RayID == 0 {
		record.Ray.RayID = s.nextID
		record.Event.RayID = s.nextID
	}
	s.records = append(s.records, record)
	return nil
}

// Records returns a snapshot of every record emitted so far, in emission
// order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// ByThrowID groups every record by its ray's ThrowID, giving a single
// photon's full causal history in event order.
func (s *MemorySink) ByThrowID(throwID int64) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.Ray.ThrowID == throwID {
			out = append(out, r)
		}
	}
	return out
}

// CountByKind tallies terminal (or any) event kind occurrences, the
// aggregation a `count` CLI query performs over a persistent log.
func (s *MemorySink) CountByKind(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.records {
		if r.Event.Kind == kind {
			count++
		}
	}
	return count
}
