package tracer

import (
	"math"
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/event"
	"github.com/opticore/lumentrace/pkg/geometry"
	"github.com/opticore/lumentrace/pkg/material"
	"github.com/opticore/lumentrace/pkg/scenegraph"
	"github.com/opticore/lumentrace/pkg/spectrum"
)

func TestEngine_Trace_EmptyWorld(t *testing.T) {
	scene := scenegraph.NewScene()
	scene.Root().Name = "world"
	scene.Root().Geometry = geometry.NewSphere(10)

	engine := NewEngine(scene)
	sink := event.NewMemorySink()
	sampler := core.NewSeededSampler(1)

	ray := core.NewRay(core.NewVec3(-1, 0, 1.1), core.NewVec3(1, 0, 0))
	if _, err := engine.Trace(ray, 555, "source", 1, sampler, sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	records := sink.Records()
	if len(records) == 0 {
		t.Fatal("expected at least one record")
	}
	if records[0].Event.Kind != event.Generate {
		t.Errorf("first event = %v, want GENERATE", records[0].Event.Kind)
	}
	last := records[len(records)-1]
	if last.Event.Kind != event.Exit {
		t.Errorf("last event = %v, want EXIT", last.Event.Kind)
	}

	want := core.NewVec3(math.Sqrt(100-1.1*1.1), 0, 1.1)
	if !last.Ray.Position.ApproxEqual(want, 1e-6) {
		t.Errorf("exit position = %v, want %v", last.Ray.Position, want)
	}
}

func TestEngine_Trace_GrazingMissMatchesEmptyWorld(t *testing.T) {
	scene := scenegraph.NewScene()
	scene.Root().Name = "world"
	scene.Root().Geometry = geometry.NewSphere(10)
	glassSphere, err := scene.AddChild(scenegraph.Root, scenegraph.Node{
		Name:     "glass",
		Local:    scenegraph.NewTransform(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1), 0),
		Geometry: geometry.NewSphere(1),
		Material: material.NewMaterial("glass", material.ConstantIndex(1.5)),
	})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	_ = glassSphere

	engine := NewEngine(scene)
	sink := event.NewMemorySink()
	sampler := core.NewSeededSampler(2)

	// Glass is centered at z=2 with radius 1, so a ray at z=0.9 passes at
	// perpendicular distance 1.1 from the center — outside the radius, a
	// genuine miss.
	ray := core.NewRay(core.NewVec3(-1, 0, 0.9), core.NewVec3(1, 0, 0))
	if _, err := engine.Trace(ray, 555, "source", 1, sampler, sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	records := sink.Records()
	last := records[len(records)-1]
	if last.Event.Kind != event.Exit {
		t.Errorf("last event = %v, want EXIT", last.Event.Kind)
	}
	for _, r := range records {
		if r.Event.Hit == "glass" {
			t.Errorf("ray should have missed the glass sphere, but hit it: %+v", r.Event)
		}
	}
}

func TestEngine_Trace_RefractsThroughGlassSphere(t *testing.T) {
	scene := scenegraph.NewScene()
	scene.Root().Name = "world"
	scene.Root().Geometry = geometry.NewSphere(10)
	if _, err := scene.AddChild(scenegraph.Root, scenegraph.Node{
		Name:     "glass",
		Local:    scenegraph.NewTransform(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1), 0),
		Geometry: geometry.NewSphere(1),
		Material: material.NewMaterial("glass", material.ConstantIndex(1.5)),
	}); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	engine := NewEngine(scene)
	sink := event.NewMemorySink()
	sampler := core.NewSeededSampler(3)

	// Glass is centered at z=2 with radius 1, so a ray at z=1.1 passes at
	// perpendicular distance 0.9 from the center — inside the radius, a
	// genuine hit.
	ray := core.NewRay(core.NewVec3(-1, 0, 1.1), core.NewVec3(1, 0, 0))
	if _, err := engine.Trace(ray, 650, "source", 1, sampler, sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	records := sink.Records()
	sawGlassHit := false
	for _, r := range records {
		if r.Event.Hit == "glass" {
			sawGlassHit = true
		}
	}
	if !sawGlassHit {
		t.Error("expected the ray to register at least one HIT on the glass sphere")
	}
	last := records[len(records)-1]
	if last.Event.Kind != event.Exit && last.Event.Kind != event.Reflect {
		t.Errorf("last event = %v, want EXIT (transmit path) or REFLECT (TIR at grazing entry)", last.Event.Kind)
	}
}

func TestEngine_Trace_LuminophoreAbsorbsAndReemits(t *testing.T) {
	absorption, err := spectrum.NewTable([]float64{300, 900}, []float64{5, 5}) // flat 5 /cm equivalent in scene units
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	emission, err := spectrum.NewTable([]float64{600, 620, 640}, []float64{0.2, 1, 0.2})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	dye, err := material.NewLuminophore("dye", absorption, emission, 0.98, nil)
	if err != nil {
		t.Fatalf("NewLuminophore: %v", err)
	}

	scene := scenegraph.NewScene()
	scene.Root().Name = "world"
	scene.Root().Geometry = geometry.NewSphere(1)
	scene.Root().Material = material.NewMaterial("dyed-host", material.ConstantIndex(1), dye)

	engine := NewEngine(scene)
	sink := event.NewMemorySink()
	sampler := core.NewSeededSampler(42)

	ray := core.NewRay(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0))
	if _, err := engine.Trace(ray, 555, "source", 1, sampler, sink); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	records := sink.Records()
	sawVolumeEvent := false
	for _, r := range records {
		if r.Event.Kind == event.Emit || r.Event.Kind == event.Absorb {
			sawVolumeEvent = true
		}
	}
	if !sawVolumeEvent {
		t.Error("expected a volume interaction (EMIT or ABSORB) given a strongly absorbing dye across the sphere's diameter")
	}
}
