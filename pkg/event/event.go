// Package event defines the immutable per-ray history the tracing engine
// produces: a Ray row per state transition and an Event row per
// transition's cause, matching the two-table schema an external
// persistence layer would materialise. This module never writes to
// storage itself; a Sink is handed the rows as they're produced and
// decides what to do with them.
package event

import "github.com/opticore/lumentrace/pkg/core"

// Kind is the text form of an event tag.
type Kind string

const (
	Generate  Kind = "GENERATE"
	Travel    Kind = "TRAVEL"
	Hit       Kind = "HIT"
	Reflect   Kind = "REFLECT"
	Transmit  Kind = "TRANSMIT"
	Emit      Kind = "EMIT"
	Absorb    Kind = "ABSORB"
	Exit      Kind = "EXIT"
	Kill      Kind = "KILL"
	Scatter   Kind = "SCATTER" // alias for EMIT caused by a scatterer component
	ErrorKind Kind = "ERROR"   // distinguished error event for aborted traces, per 4.8
)

// Ray is one row of the ray table: a ray's state at the moment of an
// event, keyed by ThrowID (the photon's identity across re-emission) and
// tied to its Event row via RayID.
type Ray struct {
	RayID      int64 // monotonically assigned at emission time
	ThrowID    int64 // shared across every state of the same photon's history
	Position   core.Vec3
	Direction  core.Vec3
	Wavelength float64
	Source     string // emitting node's name
	Travelled  float64
	Duration   float64
}

// Event is one row of the event table: the cause of a Ray state
// transition.
type Event struct {
	RayID     int64
	Kind      Kind
	Component string // component name, if caused by a volume interaction
	Hit       string // hit node name
	Container string // container node before the event
	Adjacent  string // adjacent node after a boundary crossing, "" otherwise
	Facet     string
	Normal    core.Vec3 // ni, nj, nk
}

// Record pairs a Ray row with its Event row, the unit a Sink receives.
type Record struct {
	Ray   Ray
	Event Event
}

// Sink receives event records as the engine produces them. The engine
// does not own the sink or know whether it is in-memory or persistent;
// per 5's backpressure note, Emit may block.
type Sink interface {
	Emit(record Record) error
}
