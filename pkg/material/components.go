package material

import (
	"fmt"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/spectrum"
)

// baseComponent factors the fields every concrete component shares: a
// name, an absorption curve, and a phase function. Kind, quantum yield
// and emission-wavelength sampling are supplied by the embedding type.
type baseComponent struct {
	name       string
	absorption *spectrum.Table
	phase      PhaseFunction
}

func (b baseComponent) Name() string { return b.name }

func (b baseComponent) AbsorptionCoefficient(lambda float64) float64 {
	if b.absorption == nil {
		return 0
	}
	return b.absorption.At(lambda)
}

func (b baseComponent) Phase() PhaseFunction {
	if b.phase == nil {
		return IsotropicPhaseFunction{}
	}
	return b.phase
}

// Absorber has qy=0: absorption at this component always terminates the
// ray. A pure absorber's emission spectrum is never sampled.
type Absorber struct {
	baseComponent
}

// NewAbsorber returns an absorbing component with the given absorption
// coefficient curve (nanometres to inverse length).
func NewAbsorber(name string, absorption *spectrum.Table) *Absorber {
	return &Absorber{baseComponent{name: name, absorption: absorption}}
}

func (*Absorber) Kind() Kind             { return KindAbsorber }
func (*Absorber) QuantumYield() float64 { return 0 }
func (a *Absorber) SampleEmissionWavelength(absorbed float64, _ core.Sampler) (float64, error) {
	return 0, fmt.Errorf("material: absorber %q never re-emits", a.name)
}

// Scatterer has qy=1 and re-emits at the incoming wavelength, i.e. it
// changes direction according to its phase function without changing
// colour. An event caused by a scatterer is recorded as SCATTER rather
// than EMIT by the tracer, per the alias called out in the engine's event
// kinds.
type Scatterer struct {
	baseComponent
}

// NewScatterer returns a scattering component with the given
// wavelength-dependent scattering coefficient and phase function. A nil
// phase function defaults to isotropic.
func NewScatterer(name string, scatteringCoefficient *spectrum.Table, phase PhaseFunction) *Scatterer {
	return &Scatterer{baseComponent{name: name, absorption: scatteringCoefficient, phase: phase}}
}

func (*Scatterer) Kind() Kind             { return KindScatterer }
func (*Scatterer) QuantumYield() float64 { return 1 }
func (s *Scatterer) SampleEmissionWavelength(absorbed float64, _ core.Sampler) (float64, error) {
	return absorbed, nil
}

// Luminophore has 0 < qy <= 1 and re-emits from a Stokes-shifted emission
// spectrum, the fluorescent dye component central to a luminescent solar
// concentrator.
type Luminophore struct {
	baseComponent
	quantumYield float64
	emission     *spectrum.Table
}

// NewLuminophore returns a luminophore component. quantumYield must be in
// (0, 1].
func NewLuminophore(name string, absorption, emission *spectrum.Table, quantumYield float64, phase PhaseFunction) (*Luminophore, error) {
	if quantumYield <= 0 || quantumYield > 1 {
		return nil, fmt.Errorf("material: luminophore %q quantum yield %v out of (0,1]", name, quantumYield)
	}
	if emission == nil {
		return nil, fmt.Errorf("material: luminophore %q requires an emission spectrum", name)
	}
	return &Luminophore{
		baseComponent: baseComponent{name: name, absorption: absorption, phase: phase},
		quantumYield:  quantumYield,
		emission:      emission,
	}, nil
}

func (*Luminophore) Kind() Kind                { return KindLuminophore }
func (l *Luminophore) QuantumYield() float64    { return l.quantumYield }
func (l *Luminophore) SampleEmissionWavelength(_ float64, sampler core.Sampler) (float64, error) {
	return l.emission.Sample(sampler)
}

// Reactor has qy=0, like an absorber, but is tagged with a distinguished
// kind so downstream analysis (e.g. counting photons delivered to a
// photochemical reaction site) can tell the two apart even though their
// tracing behaviour is identical. Supplemented from the component kind
// set named in the distilled description, which lists "reactor" as a
// kind without further elaborating its semantics; original_source/pvtrace
// models reactive volumes the same way, as an absorber with a distinct
// tag used only for reporting.
type Reactor struct {
	baseComponent
}

// NewReactor returns a reactor component with the given absorption curve.
func NewReactor(name string, absorption *spectrum.Table) *Reactor {
	return &Reactor{baseComponent{name: name, absorption: absorption}}
}

func (*Reactor) Kind() Kind             { return KindReactor }
func (*Reactor) QuantumYield() float64 { return 0 }
func (r *Reactor) SampleEmissionWavelength(_ float64, _ core.Sampler) (float64, error) {
	return 0, fmt.Errorf("material: reactor %q never re-emits", r.name)
}
