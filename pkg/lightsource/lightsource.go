// Package lightsource implements the lazy ray-generator contract: three
// composable delegates (position, direction, wavelength) plus the
// per-source loop that draws a local-frame ray, grounded on the
// teacher's pkg/lights delegate-based Light interface and its
// LightSample/EmissionSample pattern of separating "what a light emits"
// from "where the emitting geometry places it".
package lightsource

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// PositionDelegate samples a base position in the local xy-plane.
type PositionDelegate interface {
	Sample(sampler core.Sampler) core.Vec3
}

// DirectionDelegate samples a base direction in the local +z frame.
type DirectionDelegate interface {
	Sample(sampler core.Sampler) core.Vec3
}

// WavelengthDelegate samples an emission wavelength in nanometres.
type WavelengthDelegate interface {
	Sample(sampler core.Sampler) (float64, error)
}

// PointPosition always returns the local origin, the default position
// delegate.
type PointPosition struct{}

func (PointPosition) Sample(core.Sampler) core.Vec3 { return core.NewVec3(0, 0, 0) }

// SquareMaskPosition samples uniformly over an a×b rectangle centered on
// the local origin.
type SquareMaskPosition struct{ Width, Height float64 }

func (m SquareMaskPosition) Sample(sampler core.Sampler) core.Vec3 {
	u := sampler.Get2D()
	return core.NewVec3((u.X-0.5)*m.Width, (u.Y-0.5)*m.Height, 0)
}

// CircularMaskPosition samples uniformly over a disk of the given radius
// centered on the local origin, using the standard concentric-disk-free
// polar sampling (sqrt(u) for radius to keep area density uniform).
type CircularMaskPosition struct{ Radius float64 }

func (m CircularMaskPosition) Sample(sampler core.Sampler) core.Vec3 {
	u := sampler.Get2D()
	r := m.Radius * math.Sqrt(u.X)
	theta := 2 * math.Pi * u.Y
	return core.NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// CollimatedDirection always returns +z, the default direction delegate.
type CollimatedDirection struct{}

func (CollimatedDirection) Sample(core.Sampler) core.Vec3 { return core.NewVec3(0, 0, 1) }

// ConeDirection samples uniformly within a cone of the given half-angle
// (radians) around +z.
type ConeDirection struct{ HalfAngle float64 }

func (c ConeDirection) Sample(sampler core.Sampler) core.Vec3 {
	u := sampler.Get2D()
	cosMax := math.Cos(c.HalfAngle)
	cosTheta := 1 - u.X*(1-cosMax)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// LambertianDirection samples a cosine-weighted hemisphere around +z, the
// divergence profile of a diffuse emitter.
type LambertianDirection struct{}

func (LambertianDirection) Sample(sampler core.Sampler) core.Vec3 {
	u := sampler.Get2D()
	r := math.Sqrt(u.X)
	theta := 2 * math.Pi * u.Y
	x, y := r*math.Cos(theta), r*math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u.X))
	return core.NewVec3(x, y, z)
}

// MonochromaticWavelength always samples the same wavelength.
type MonochromaticWavelength struct{ Lambda float64 }

func (m MonochromaticWavelength) Sample(core.Sampler) (float64, error) { return m.Lambda, nil }

// SpectrumWavelength wraps a spectrum.Table's Sample method, kept as a
// narrow function type here so pkg/lightsource does not need to import
// pkg/spectrum for the concrete type; scenebuild wires a *spectrum.Table
// through this adapter.
type SpectrumWavelength func(sampler core.Sampler) (float64, error)

func (f SpectrumWavelength) Sample(sampler core.Sampler) (float64, error) { return f(sampler) }

// LightSource composes the three delegates per 4.6. Position and
// Direction default to PointPosition/CollimatedDirection when nil.
type LightSource struct {
	Position   PositionDelegate
	Direction  DirectionDelegate
	Wavelength WavelengthDelegate
}

// NewLightSource returns a light source with the given delegates. A nil
// Position or Direction falls back to the point/collimated default;
// Wavelength must be non-nil.
func NewLightSource(position PositionDelegate, direction DirectionDelegate, wavelength WavelengthDelegate) *LightSource {
	if position == nil {
		position = PointPosition{}
	}
	if direction == nil {
		direction = CollimatedDirection{}
	}
	return &LightSource{Position: position, Direction: direction, Wavelength: wavelength}
}

// Emission is one drawn ray in the emitting node's local frame, plus its
// wavelength. The engine applies the node's world transform and stamps
// source/travelled before the first GENERATE event.
type Emission struct {
	Ray    core.Ray
	Lambda float64
}

// Emit draws one local-frame ray per the 4.6 algorithm: wavelength, then
// direction, then position, composed into a ray whose origin is the
// sampled position and whose direction is the sampled direction.
func (l *LightSource) Emit(sampler core.Sampler) (Emission, error) {
	lambda, err := l.Wavelength.Sample(sampler)
	if err != nil {
		return Emission{}, err
	}
	direction := l.Direction.Sample(sampler).Normalize()
	position := l.Position.Sample(sampler)
	return Emission{Ray: core.NewRay(position, direction), Lambda: lambda}, nil
}

// EmitN draws n local-frame emissions, the finite, non-restartable
// sequence 4.6 describes ("the caller requests N rays").
func (l *LightSource) EmitN(n int, sampler core.Sampler) ([]Emission, error) {
	emissions := make([]Emission, 0, n)
	for i := 0; i < n; i++ {
		e, err := l.Emit(sampler)
		if err != nil {
			return nil, err
		}
		emissions = append(emissions, e)
	}
	return emissions, nil
}
