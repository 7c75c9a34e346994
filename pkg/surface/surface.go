// Package surface implements the Fresnel decision a photon faces at a
// geometric boundary: reflect, transmit, or (for a coated delegate)
// absorb. Grounded on the teacher's pkg/material/dielectric.go, whose
// reflectVector/refractVector helpers and total-internal-reflection check
// are kept, but whose actual reflectance formula (Schlick's
// approximation, tuned for a camera's visual accuracy/speed tradeoff) is
// replaced with the full unpolarised Fresnel equations a physical
// radiometric simulation needs.
package surface

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// Decision is the outcome of a boundary interaction.
type Decision int

const (
	Reflect Decision = iota
	Transmit
	Absorb
)

func (d Decision) String() string {
	switch d {
	case Reflect:
		return "reflect"
	case Transmit:
		return "transmit"
	case Absorb:
		return "absorb"
	default:
		return "unknown"
	}
}

// Outcome is the delegate's answer: a decision plus the outgoing
// direction (meaningless for Absorb).
type Outcome struct {
	Decision  Decision
	Direction core.Vec3
}

// Delegate is the capability a boundary interaction is dispatched to.
type Delegate interface {
	Interact(incident core.Vec3, normal core.Vec3, n1, n2 float64, sampler core.Sampler) Outcome
}

// Fresnel is the default delegate: full unpolarised Fresnel reflectance,
// per 4.5.
type Fresnel struct{}

// Interact implements the four-step algorithm 4.5 lays out: flip the
// normal to face the incident ray, check for total internal reflection
// via Snell's law, compute the unpolarised Fresnel reflectance R =
// ½(Rs+Rp), and draw against it.
func (Fresnel) Interact(incident core.Vec3, normal core.Vec3, n1, n2 float64, sampler core.Sampler) Outcome {
	d := incident.Normalize()
	n := normal.Normalize()

	cosI := -d.Dot(n)
	if cosI < 0 {
		n = n.Negate()
		cosI = -cosI
	}

	eta := n1 / n2
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return Outcome{Decision: Reflect, Direction: reflect(d, n, cosI)}
	}
	cosT := math.Sqrt(1 - sin2T)

	rs := (n1*cosI - n2*cosT) / (n1*cosI + n2*cosT)
	rp := (n2*cosI - n1*cosT) / (n2*cosI + n1*cosT)
	reflectance := 0.5 * (rs*rs + rp*rp)

	if sampler.Get1D() < reflectance {
		return Outcome{Decision: Reflect, Direction: reflect(d, n, cosI)}
	}
	return Outcome{Decision: Transmit, Direction: refract(d, n, eta, cosI, cosT)}
}

// reflect computes d + 2 cosθi n, per 4.5 step 4 (d points along the
// incident ray, n has already been flipped to face it).
func reflect(d, n core.Vec3, cosI float64) core.Vec3 {
	return d.Add(n.Multiply(2 * cosI)).Normalize()
}

// refract computes the standard vector form of Snell's law.
func refract(d, n core.Vec3, eta, cosI, cosT float64) core.Vec3 {
	return d.Multiply(eta).Add(n.Multiply(eta*cosI - cosT)).Normalize()
}

// Coated wraps a delegate with a probability of the boundary being an
// absorbing coating rather than a clean dielectric interface, supplied so
// a scene can model, e.g., a partially metallised back reflector.
// Supplemented from original_source/pvtrace's surface behaviours, which
// model exactly this as a decorator around a Fresnel surface rather than
// a separate material component.
type Coated struct {
	Inner              Delegate
	AbsorptionFraction float64 // probability in [0,1] the coating absorbs before Inner is consulted
}

func (c Coated) Interact(incident core.Vec3, normal core.Vec3, n1, n2 float64, sampler core.Sampler) Outcome {
	if sampler.Get1D() < c.AbsorptionFraction {
		return Outcome{Decision: Absorb}
	}
	inner := c.Inner
	if inner == nil {
		inner = Fresnel{}
	}
	return inner.Interact(incident, normal, n1, n2, sampler)
}
