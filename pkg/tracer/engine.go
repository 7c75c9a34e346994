// Package tracer implements the photon-tracing loop: for one ray, race
// the next surface crossing against the next volume interaction, emit an
// event for whichever comes first, and repeat until the ray exits the
// world, is absorbed, or is killed. Grounded on the teacher's
// pkg/integrator/path_tracing.go bounce loop shape (a for loop bounded by
// a depth/event cap, a scene.Hit query each iteration, a switch on what
// the hit implies), with the BRDF-sampling bounce replaced by the
// boundary-vs-volume race this domain requires.
package tracer

import (
	"fmt"
	"math"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/event"
	"github.com/opticore/lumentrace/pkg/intersect"
	"github.com/opticore/lumentrace/pkg/material"
	"github.com/opticore/lumentrace/pkg/scenegraph"
	"github.com/opticore/lumentrace/pkg/surface"
)

// outsideWorld is the sentinel adjacent-node value meaning "beyond the
// root's own geometry", used when a ray is about to leave the world
// entirely.
const outsideWorld scenegraph.NodeIndex = -1

// Options controls the safety thresholds and physical constants 4.7's
// numerical policy section calls for.
type Options struct {
	// MaxEvents bounds the event count per ray before a SafetyKill.
	MaxEvents int
	// MaxDistance bounds cumulative travelled distance per ray before a
	// SafetyKill.
	MaxDistance float64
	// SpeedOfLight is c in the scene's length unit per second, used to
	// advance a ray's duration by (distance * n) / SpeedOfLight — see
	// DESIGN.md's Open Question #2 decision on using the local medium's
	// index rather than a fixed c.
	SpeedOfLight float64
	// Epsilon nudges a ray's origin along its new direction after every
	// event to avoid immediate self-intersection.
	Epsilon float64
}

// DefaultOptions returns the thresholds 4.7 suggests ("e.g. 1000")
// together with c in metres/second, appropriate when the scene's length
// unit is metres.
func DefaultOptions() Options {
	return Options{
		MaxEvents:    1000,
		MaxDistance:  1e6,
		SpeedOfLight: 299792458.0,
		Epsilon:      1e-9,
	}
}

// Engine traces individual rays against a fixed, read-only scene. It
// holds no mutable state itself, so one value can be shared across
// workers; pkg/batch gives each worker its own.
type Engine struct {
	Scene    *scenegraph.Scene
	Delegate surface.Delegate
	Options  Options
}

// NewEngine returns an engine over scene with the default surface
// delegate (Fresnel) and thresholds.
func NewEngine(scene *scenegraph.Scene) *Engine {
	return &Engine{Scene: scene, Delegate: surface.Fresnel{}, Options: DefaultOptions()}
}

func materialOf(scene *scenegraph.Scene, idx scenegraph.NodeIndex) *material.Material {
	if idx == outsideWorld {
		return nil
	}
	return scene.Node(idx).Material
}

func refractiveIndexOf(mat *material.Material, lambda float64) float64 {
	if mat == nil {
		return 1.0
	}
	return mat.RefractiveIndex(lambda)
}

func nameOf(scene *scenegraph.Scene, idx scenegraph.NodeIndex) string {
	if idx == outsideWorld {
		return "outside-world"
	}
	return scene.Node(idx).Name
}

// state carries the mutable, per-ray bookkeeping the trace loop advances.
type state struct {
	ray        core.Ray
	lambda     float64
	container  scenegraph.NodeIndex
	travelled  float64
	duration   float64
	throwID    int64
	rayID      int64
	source     string
	eventCount int
	lastKind   event.Kind
}

// Trace runs the full lifetime of one photon, emitting Records to sink as
// it goes. throwID identifies the photon across re-emission; every
// record's RayID is left zero for the sink to assign, per
// event.MemorySink's convention.
func (e *Engine) Trace(ray core.Ray, lambda float64, sourceName string, throwID int64, sampler core.Sampler, sink event.Sink) (event.Kind, error) {
	s := &state{
		ray:     ray,
		lambda:  lambda,
		source:  sourceName,
		throwID: throwID,
	}

	s.container = e.Scene.ContainerOf(ray.Origin)
	if err := e.emit(s, sink, event.Generate, event.Event{
		Container: nameOf(e.Scene, s.container),
	}); err != nil {
		return s.lastKind, err
	}

	for {
		if s.eventCount >= e.Options.MaxEvents || s.travelled >= e.Options.MaxDistance {
			return s.lastKind, e.emit(s, sink, event.Kill, event.Event{Container: nameOf(e.Scene, s.container)})
		}

		hits := intersect.Service{}.Intersections(e.Scene, s.ray)
		if len(hits) == 0 {
			return s.lastKind, e.emit(s, sink, event.ErrorKind, event.Event{
				Container: nameOf(e.Scene, s.container),
				Component: "no-intersection-while-inside-world",
			})
		}
		hit := hits[0]

		containerMat := materialOf(e.Scene, s.container)
		tVol := math.Inf(1)
		if containerMat != nil {
			tVol = containerMat.SampleInteractionDistance(s.lambda, sampler)
		}

		if tVol < hit.T {
			if done, err := e.volumeInteraction(s, sink, tVol, containerMat, sampler); done || err != nil {
				return s.lastKind, err
			}
			continue
		}

		if done, err := e.boundaryInteraction(s, sink, hit, sampler); done || err != nil {
			return s.lastKind, err
		}
	}
}

// advance moves the ray forward by t, accumulating travelled distance and
// duration using the current container's refractive index (Open Question
// #2's decision).
func (e *Engine) advance(s *state, t float64) {
	n := refractiveIndexOf(materialOf(e.Scene, s.container), s.lambda)
	s.ray = core.NewRay(s.ray.At(t), s.ray.Direction)
	s.travelled += t
	if e.Options.SpeedOfLight > 0 {
		s.duration += t * n / e.Options.SpeedOfLight
	}
}

// volumeInteraction implements 4.7 step 4: advance to the interaction
// point, select a component, then either re-emit or absorb. Returns
// done=true when the ray's trace has ended (absorbed).
func (e *Engine) volumeInteraction(s *state, sink event.Sink, tVol float64, mat *material.Material, sampler core.Sampler) (bool, error) {
	e.advance(s, tVol)

	comp, err := mat.SelectComponent(s.lambda, sampler)
	if err != nil {
		return true, e.emit(s, sink, event.ErrorKind, event.Event{
			Container: nameOf(e.Scene, s.container),
			Component: "component-selection-failed",
		})
	}

	if sampler.Get1D() >= comp.QuantumYield() {
		return true, e.emit(s, sink, event.Absorb, event.Event{
			Container: nameOf(e.Scene, s.container),
			Component: comp.Name(),
		})
	}

	newLambda, err := comp.SampleEmissionWavelength(s.lambda, sampler)
	if err != nil {
		return true, fmt.Errorf("tracer: re-emission sampling: %w", err)
	}
	newDirection := comp.Phase().Sample(s.ray.Direction, sampler)

	kind := event.Emit
	if comp.Kind() == material.KindScatterer {
		kind = event.Scatter
	}

	s.lambda = newLambda
	s.ray = core.NewRay(s.ray.Origin, newDirection)

	return false, e.emit(s, sink, kind, event.Event{
		Container: nameOf(e.Scene, s.container),
		Component: comp.Name(),
	})
}

// boundaryInteraction implements 4.7 step 5-6: advance to the surface,
// resolve adjacent, consult the surface delegate, and update state.
// Returns done=true when the trace has ended (exited or absorbed at the
// surface).
func (e *Engine) boundaryInteraction(s *state, sink event.Sink, hit intersect.Hit, sampler core.Sampler) (bool, error) {
	e.advance(s, hit.T)

	entering := hit.Node != s.container
	var adjacent scenegraph.NodeIndex
	if entering {
		adjacent = hit.Node
	} else if node := e.Scene.Node(hit.Node); node.HasParent {
		adjacent = node.Parent
	} else {
		adjacent = outsideWorld
	}

	if err := e.emit(s, sink, event.Hit, event.Event{
		Hit:       hit.Name,
		Container: nameOf(e.Scene, s.container),
		Adjacent:  nameOf(e.Scene, adjacent),
		Facet:     hit.Facet,
		Normal:    hit.Normal,
	}); err != nil {
		return true, err
	}

	n1 := refractiveIndexOf(materialOf(e.Scene, s.container), s.lambda)
	n2 := refractiveIndexOf(materialOf(e.Scene, adjacent), s.lambda)

	outcome := e.Delegate.Interact(s.ray.Direction, hit.Normal, n1, n2, sampler)

	switch outcome.Decision {
	case surface.Reflect:
		s.ray = core.NewRay(hit.Point, outcome.Direction).Nudged(e.Options.Epsilon)
		return false, e.emit(s, sink, event.Reflect, event.Event{
			Hit: hit.Name, Container: nameOf(e.Scene, s.container), Facet: hit.Facet, Normal: hit.Normal,
		})
	case surface.Absorb:
		return true, e.emit(s, sink, event.Absorb, event.Event{
			Hit: hit.Name, Container: nameOf(e.Scene, s.container), Facet: hit.Facet, Normal: hit.Normal,
		})
	default: // Transmit
		s.ray = core.NewRay(hit.Point, outcome.Direction).Nudged(e.Options.Epsilon)
		if err := e.emit(s, sink, event.Transmit, event.Event{
			Hit: hit.Name, Container: nameOf(e.Scene, s.container), Adjacent: nameOf(e.Scene, adjacent), Facet: hit.Facet, Normal: hit.Normal,
		}); err != nil {
			return true, err
		}
		s.container = adjacent
		if adjacent == outsideWorld {
			return true, e.emit(s, sink, event.Exit, event.Event{Container: nameOf(e.Scene, hit.Node), Facet: hit.Facet, Normal: hit.Normal})
		}
		return false, nil
	}
}

// emit builds and forwards one Record, advancing the per-ray event
// counter that feeds the safety-kill check.
func (e *Engine) emit(s *state, sink event.Sink, kind event.Kind, ev event.Event) error {
	s.eventCount++
	s.lastKind = kind
	ev.Kind = kind
	record := event.Record{
		Ray: event.Ray{
			RayID:      s.rayID,
			ThrowID:    s.throwID,
			Position:   s.ray.Origin,
			Direction:  s.ray.Direction,
			Wavelength: s.lambda,
			Source:     s.source,
			Travelled:  s.travelled,
			Duration:   s.duration,
		},
		Event: ev,
	}
	if err := sink.Emit(record); err != nil {
		return core.NewSinkError(err)
	}
	return nil
}
