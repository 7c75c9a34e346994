package material

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/spectrum"
)

// RefractiveIndexFunc gives a material's refractive index as a function
// of wavelength in nanometres.
type RefractiveIndexFunc func(lambda float64) float64

// ConstantIndex returns a RefractiveIndexFunc that ignores wavelength,
// the common case for a scene component with no dispersion data.
func ConstantIndex(n float64) RefractiveIndexFunc {
	return func(float64) float64 { return n }
}

// Material is a composite volume response: a refractive index function
// plus an ordered list of Components. An empty component list is a valid
// inert material (a pure dielectric).
type Material struct {
	Name            string
	RefractiveIndex RefractiveIndexFunc
	Components      []Component
}

// NewMaterial returns a material with the given refractive index and
// components. A nil RefractiveIndexFunc defaults to a constant index of 1.
func NewMaterial(name string, index RefractiveIndexFunc, components ...Component) *Material {
	if index == nil {
		index = ConstantIndex(1)
	}
	return &Material{Name: name, RefractiveIndex: index, Components: components}
}

// TotalExtinction returns Σ_i α_i(λ) across every component.
func (m *Material) TotalExtinction(lambda float64) float64 {
	total := 0.0
	for _, c := range m.Components {
		total += c.AbsorptionCoefficient(lambda)
	}
	return total
}

// SampleInteractionDistance draws the volume interaction distance
// d = -ln(ξ)/α_total(λ) using gonum's Exponential distribution, whose
// rate parameter is exactly the total extinction coefficient. Returns
// +Inf when the material has zero extinction at lambda, matching the
// "pure dielectric" case.
func (m *Material) SampleInteractionDistance(lambda float64, sampler core.Sampler) float64 {
	rate := m.TotalExtinction(lambda)
	if rate <= 0 {
		return math.Inf(1)
	}
	dist := distuv.Exponential{Rate: rate, Src: core.Source64{Rand: sampler.Source()}}
	return dist.Rand()
}

// SelectComponent performs the categorical draw over components weighted
// by α_i(λ)/α_total(λ), grounded on pkg/spectrum.DiscretePDF. Returns an
// error if every component has zero absorption at lambda (the caller
// should not reach this when TotalExtinction is zero).
func (m *Material) SelectComponent(lambda float64, sampler core.Sampler) (Component, error) {
	if len(m.Components) == 0 {
		return nil, fmt.Errorf("material: %q has no components to select from", m.Name)
	}
	weights := make([]float64, len(m.Components))
	for i, c := range m.Components {
		weights[i] = c.AbsorptionCoefficient(lambda)
	}
	pdf, err := spectrum.NewDiscretePDF(weights)
	if err != nil {
		return nil, fmt.Errorf("material: %q: %w", m.Name, err)
	}
	return m.Components[pdf.Draw(sampler)], nil
}

// IsInert reports whether the material has no components at all, the
// pure-dielectric case singled out in the description of the composite
// type.
func (m *Material) IsInert() bool {
	return len(m.Components) == 0
}
