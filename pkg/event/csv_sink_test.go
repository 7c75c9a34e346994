package event

import (
	"path/filepath"
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
)

func TestCSVSink_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(filepath.Join(dir, "run1"))
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	want := []Record{
		{
			Ray:   Ray{ThrowID: 1, Position: core.NewVec3(1, 2, 3), Direction: core.NewVec3(1, 0, 0), Wavelength: 555, Source: "laser", Travelled: 4.5, Duration: 1e-9},
			Event: Event{Kind: Generate, Container: "world"},
		},
		{
			Ray:   Ray{ThrowID: 1, Position: core.NewVec3(9.9, 0, 1.1), Direction: core.NewVec3(1, 0, 0), Wavelength: 555, Source: "laser", Travelled: 10.9, Duration: 2e-9},
			Event: Event{Kind: Exit, Normal: core.NewVec3(1, 0, 0)},
		},
	}
	for _, r := range want {
		if err := sink.Emit(r); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadCSV(filepath.Join(dir, "run1"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Event.Kind != want[i].Event.Kind {
			t.Errorf("record %d kind = %v, want %v", i, got[i].Event.Kind, want[i].Event.Kind)
		}
		if !got[i].Ray.Position.ApproxEqual(want[i].Ray.Position, 1e-9) {
			t.Errorf("record %d position = %v, want %v", i, got[i].Ray.Position, want[i].Ray.Position)
		}
		if got[i].Ray.ThrowID != want[i].Ray.ThrowID {
			t.Errorf("record %d throw id = %d, want %d", i, got[i].Ray.ThrowID, want[i].Ray.ThrowID)
		}
	}
}

func TestCSVSink_AssignsRayIDsWhenZero(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	if err := sink.Emit(Record{Ray: Ray{ThrowID: 1}, Event: Event{Kind: Generate}}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := sink.Emit(Record{Ray: Ray{ThrowID: 1}, Event: Event{Kind: Exit}}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	sink.Close()

	got, err := ReadCSV(dir)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got[0].Ray.RayID == got[1].Ray.RayID {
		t.Error("expected distinct auto-assigned ray ids")
	}
}
