// Package material implements the wavelength-dependent volume response of
// a scene node: how far a ray travels before something happens inside it,
// which component caused the interaction, and whether that interaction
// re-emits the ray or terminates it.
package material

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// Kind categorizes a Component for event records and for the qy/emission
// conventions each kind follows.
type Kind int

const (
	KindAbsorber Kind = iota
	KindScatterer
	KindLuminophore
	KindReactor
)

func (k Kind) String() string {
	switch k {
	case KindAbsorber:
		return "absorber"
	case KindScatterer:
		return "scatterer"
	case KindLuminophore:
		return "luminophore"
	case KindReactor:
		return "reactor"
	default:
		return "unknown"
	}
}

// PhaseFunction samples an outgoing direction given an incoming one, used
// by scatterers and by luminophores that emit anisotropically. The
// isotropic default and the Henyey-Greenstein option are not present in
// the distilled description of components, which mentions phase
// functions only in passing; original_source/pvtrace implements both, so
// both are carried over here as the PhaseFunction capability.
type PhaseFunction interface {
	Sample(incoming core.Vec3, sampler core.Sampler) core.Vec3
}

// IsotropicPhaseFunction scatters uniformly over the sphere, independent
// of the incoming direction. This is the default for any component that
// does not specify one.
type IsotropicPhaseFunction struct{}

func (IsotropicPhaseFunction) Sample(_ core.Vec3, sampler core.Sampler) core.Vec3 {
	return sampleUniformSphere(sampler)
}

func sampleUniformSphere(sampler core.Sampler) core.Vec3 {
	u := sampler.Get2D()
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// Component is one wavelength-dependent volume response mechanism inside
// a Material: an absorption coefficient curve, an emission spectrum,
// a quantum yield, and a phase function for the re-emitted direction.
type Component interface {
	Name() string
	Kind() Kind
	AbsorptionCoefficient(lambda float64) float64
	// QuantumYield is the probability that absorption at this component
	// leads to re-emission rather than termination.
	QuantumYield() float64
	// SampleEmissionWavelength draws a re-emission wavelength given the
	// absorbed wavelength. Scatterers return the incoming wavelength
	// unchanged.
	SampleEmissionWavelength(absorbed float64, sampler core.Sampler) (float64, error)
	Phase() PhaseFunction
}
