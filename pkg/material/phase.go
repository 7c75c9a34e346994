package material

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// HenyeyGreenstein is an anisotropic phase function parameterized by the
// asymmetry factor g in (-1, 1): g>0 favours forward scattering, g<0
// favours backward scattering, g=0 is isotropic. Supplemented from
// original_source/pvtrace, whose scattering components expose the same
// parameter; the distilled component description only names "isotropic
// by default", leaving the anisotropic option to be filled in here.
type HenyeyGreenstein struct {
	G float64
}

func (h HenyeyGreenstein) Sample(incoming core.Vec3, sampler core.Sampler) core.Vec3 {
	u := sampler.Get2D()
	var cosTheta float64
	if math.Abs(h.G) < 1e-6 {
		cosTheta = 1 - 2*u.X
	} else {
		sq := (1 - h.G*h.G) / (1 + h.G - 2*h.G*u.X)
		cosTheta = (1 + h.G*h.G - sq*sq) / (2 * h.G)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	forward := incoming.Normalize()
	tangent, bitangent := orthonormalBasis(forward)
	local := forward.Multiply(cosTheta).
		Add(tangent.Multiply(sinTheta * math.Cos(phi))).
		Add(bitangent.Multiply(sinTheta * math.Sin(phi)))
	return local.Normalize()
}

// orthonormalBasis returns two unit vectors perpendicular to n and to
// each other, using the same axis-selection trick as the teacher's
// surface-interaction basis construction to avoid a degenerate cross
// product when n is close to a coordinate axis.
func orthonormalBasis(n core.Vec3) (core.Vec3, core.Vec3) {
	up := core.NewVec3(0, 1, 0)
	if math.Abs(n.Y) > 0.99 {
		up = core.NewVec3(1, 0, 0)
	}
	tangent := up.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}
