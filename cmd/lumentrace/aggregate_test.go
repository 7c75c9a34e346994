package main

import (
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/event"
)

func sampleRecords() []event.Record {
	return []event.Record{
		{Ray: event.Ray{ThrowID: 1, Source: "laser"}, Event: event.Event{Kind: event.Generate, Container: "world"}},
		{Ray: event.Ray{ThrowID: 1, Wavelength: 555, Source: "laser"}, Event: event.Event{Kind: event.Hit, Hit: "slab", Container: "world", Adjacent: "slab", Normal: core.NewVec3(0, 0, -1)}},
		{Ray: event.Ray{ThrowID: 1, Wavelength: 555, Source: "laser"}, Event: event.Event{Kind: event.Reflect, Hit: "slab", Container: "world", Normal: core.NewVec3(0, 0, -1)}},
		{Ray: event.Ray{ThrowID: 2, Source: "laser"}, Event: event.Event{Kind: event.Generate, Container: "world"}},
		{Ray: event.Ray{ThrowID: 2, Wavelength: 555, Source: "laser"}, Event: event.Event{Kind: event.Transmit, Hit: "slab", Container: "world", Adjacent: "slab", Normal: core.NewVec3(0, 0, -1)}},
		{Ray: event.Ray{ThrowID: 2, Wavelength: 620, Source: "laser"}, Event: event.Event{Kind: event.Emit, Component: "dye", Container: "slab"}},
		{Ray: event.Ray{ThrowID: 2, Wavelength: 620, Source: "laser"}, Event: event.Event{Kind: event.Exit, Container: "slab"}},
	}
}

func TestCountStream_ReflectedAndEntering(t *testing.T) {
	records := sampleRecords()

	reflected, err := countStream(records, "reflected", "slab", "", normalFilter{})
	if err != nil {
		t.Fatalf("countStream: %v", err)
	}
	if reflected != 1 {
		t.Errorf("reflected = %d, want 1", reflected)
	}

	entering, err := countStream(records, "entering", "slab", "", normalFilter{})
	if err != nil {
		t.Fatalf("countStream: %v", err)
	}
	if entering != 1 {
		t.Errorf("entering = %d, want 1", entering)
	}
}

func TestCountStream_UnknownStreamErrors(t *testing.T) {
	if _, err := countStream(sampleRecords(), "bogus", "slab", "", normalFilter{}); err == nil {
		t.Error("expected an error for an unknown stream")
	}
}

func TestSpectrumHistogram_EmittedBucketsWavelength(t *testing.T) {
	bins, err := spectrumHistogram(sampleRecords(), "emitted", "slab", "", 10)
	if err != nil {
		t.Fatalf("spectrumHistogram: %v", err)
	}
	total := 0
	for _, b := range bins {
		total += b.count
	}
	if total != 1 {
		t.Errorf("total emitted count = %d, want 1", total)
	}
}

func TestSpectrumHistogram_EmptyStreamReturnsNil(t *testing.T) {
	bins, err := spectrumHistogram(sampleRecords(), "emitted", "no-such-node", "", 10)
	if err != nil {
		t.Fatalf("spectrumHistogram: %v", err)
	}
	if bins != nil {
		t.Errorf("expected nil bins for a stream with no matches, got %v", bins)
	}
}
