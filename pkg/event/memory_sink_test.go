package event

import "testing"

func TestMemorySink_AssignsRayIDs(t *testing.T) {
	sink := NewMemorySink()
	for i := 0; i < 3; i++ {
		if err := sink.Emit(Record{Event: Event{Kind: Generate}}); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	records := sink.Records()
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	seen := map[int64]bool{}
	for _, r := range records {
		if seen[r.Ray.RayID] {
			t.Fatalf("duplicate RayID %d", r.Ray.RayID)
		}
		seen[r.Ray.RayID] = true
		if r.Ray.RayID != r.Event.RayID {
			t.Fatalf("Ray.RayID %d != Event.RayID %d", r.Ray.RayID, r.Event.RayID)
		}
	}
}

func TestMemorySink_ByThrowID(t *testing.T) {
	sink := NewMemorySink()
	sink.Emit(Record{Ray: Ray{ThrowID: 1}, Event: Event{Kind: Generate}})
	sink.Emit(Record{Ray: Ray{ThrowID: 2}, Event: Event{Kind: Generate}})
	sink.Emit(Record{Ray: Ray{ThrowID: 1}, Event: Event{Kind: Exit}})

	history := sink.ByThrowID(1)
	if len(history) != 2 {
		t.Fatalf("got %d records for throw 1, want 2", len(history))
	}
	if history[0].Event.Kind != Generate || history[1].Event.Kind != Exit {
		t.Errorf("history kinds = %v, %v, want GENERATE, EXIT", history[0].Event.Kind, history[1].Event.Kind)
	}
}

func TestMemorySink_CountByKind(t *testing.T) {
	sink := NewMemorySink()
	sink.Emit(Record{Event: Event{Kind: Exit}})
	sink.Emit(Record{Event: Event{Kind: Exit}})
	sink.Emit(Record{Event: Event{Kind: Kill}})

	if got := sink.CountByKind(Exit); got != 2 {
		t.Errorf("CountByKind(Exit) = %d, want 2", got)
	}
	if got := sink.CountByKind(Kill); got != 1 {
		t.Errorf("CountByKind(Kill) = %d, want 1", got)
	}
}
