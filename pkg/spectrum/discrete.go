// Package spectrum provides wavelength-indexed probability distributions:
// the categorical draw used to pick which material component absorbed a
// photon, and the sampling of a re-emission wavelength from a
// component's emission spectrum.
package spectrum

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/opticore/lumentrace/pkg/core"
)

// DiscretePDF is a categorical distribution over a finite set of outcomes
// with arbitrary non-negative weights, grounded on
// other_examples/make-42-rtrace's weighted_rand: it builds a cumulative
// sum with gonum/floats.CumSum and then draws a uniform variate scaled to
// the total weight, using sort.Search to invert the CDF. That routine
// draws over a population of wavelengths for blackbody spectra; here the
// same shape draws over material components and over the discrete bins
// of a tabulated emission spectrum.
type DiscretePDF struct {
	cumulative []float64
	total      float64
}

// NewDiscretePDF builds a categorical distribution from weights. Weights
// must be non-negative and sum to a positive number.
func NewDiscretePDF(weights []float64) (*DiscretePDF, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("spectrum: empty weight list")
	}
	cumulative := make([]float64, len(weights))
	floats.CumSum(cumulative, weights)
	total := cumulative[len(cumulative)-1]
	if total <= 0 {
		return nil, fmt.Errorf("spectrum: weights sum to %v, want > 0", total)
	}
	return &DiscretePDF{cumulative: cumulative, total: total}, nil
}

// Draw returns the index of the outcome selected by one categorical draw,
// consuming one uniform variate from sampler.
func (d *DiscretePDF) Draw(sampler core.Sampler) int {
	target := (distuv.Uniform{Min: 0, Max: 1, Src: core.Source64{Rand: sampler.Source()}}).Rand() * d.total
	idx := sort.Search(len(d.cumulative), func(i int) bool { return d.cumulative[i] >= target })
	if idx >= len(d.cumulative) {
		idx = len(d.cumulative) - 1
	}
	return idx
}

// Weight returns the total of all weights the distribution was built
// from, i.e. the extinction coefficient sum when used for component
// selection.
func (d *DiscretePDF) Weight() float64 {
	return d.total
}

// Table is a tabulated function of wavelength (nanometres) to intensity,
// used both as an emission spectrum to sample from and as an
// absorption-coefficient curve to evaluate.
type Table struct {
	Wavelengths []float64
	Values      []float64
}

// NewTable builds a table from parallel wavelength/value slices, sorted
// ascending by wavelength.
func NewTable(wavelengths, values []float64) (*Table, error) {
	if len(wavelengths) != len(values) || len(wavelengths) == 0 {
		return nil, fmt.Errorf("spectrum: wavelengths and values must be equal-length and non-empty")
	}
	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i] <= wavelengths[i-1] {
			return nil, fmt.Errorf("spectrum: wavelengths must be strictly increasing")
		}
	}
	return &Table{Wavelengths: wavelengths, Values: values}, nil
}

// At linearly interpolates the table at wavelength lambda, clamping to
// the table's endpoints outside its domain.
func (t *Table) At(lambda float64) float64 {
	n := len(t.Wavelengths)
	if lambda <= t.Wavelengths[0] {
		return t.Values[0]
	}
	if lambda >= t.Wavelengths[n-1] {
		return t.Values[n-1]
	}
	i := sort.SearchFloat64s(t.Wavelengths, lambda)
	if i == 0 {
		return t.Values[0]
	}
	lo, hi := t.Wavelengths[i-1], t.Wavelengths[i]
	frac := (lambda - lo) / (hi - lo)
	return t.Values[i-1] + frac*(t.Values[i]-t.Values[i-1])
}

// Sample draws a wavelength from the table treated as an (unnormalized)
// emission PDF over its bins, then jitters uniformly within the chosen
// bin's width so the result is not restricted to the tabulated grid.
func (t *Table) Sample(sampler core.Sampler) (float64, error) {
	pdf, err := NewDiscretePDF(t.Values)
	if err != nil {
		return 0, err
	}
	idx := pdf.Draw(sampler)
	lo := t.Wavelengths[idx]
	hi := lo
	if idx+1 < len(t.Wavelengths) {
		hi = t.Wavelengths[idx+1]
	} else if idx > 0 {
		lo, hi = t.Wavelengths[idx-1], t.Wavelengths[idx]
	}
	if hi == lo {
		return lo, nil
	}
	return lo + sampler.Get1D()*(hi-lo), nil
}
