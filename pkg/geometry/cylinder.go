package geometry

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// Cylinder is a solid finite right circular cylinder centered on the
// local origin with its axis along +Z. The lateral-surface quadratic is
// grounded on the teacher's pkg/geometry/cylinder.go; unlike that
// renderer-only primitive, which leaves the cylinder open-ended because a
// camera never needs a solid cap, this one adds the two end-cap disks so
// Contains and the closed-surface intersection contract hold for a solid
// optical component.
type Cylinder struct {
	Radius     float64
	HalfHeight float64 // half of the full height along Z
}

// NewCylinder returns a cylinder of the given radius and full height.
func NewCylinder(radius, height float64) *Cylinder {
	return &Cylinder{Radius: radius, HalfHeight: height / 2}
}

// Intersections returns every crossing with the lateral surface and the
// two end caps, ordered ascending by T.
func (c *Cylinder) Intersections(ray core.Ray) []Intersection {
	hits := make([]Intersection, 0, 4)

	dx, dy := ray.Direction.X, ray.Direction.Y
	ox, oy := ray.Origin.X, ray.Origin.Y

	a := dx*dx + dy*dy
	if a > 1e-12 {
		b := 2 * (ox*dx + oy*dy)
		cc := ox*ox + oy*oy - c.Radius*c.Radius
		discriminant := b*b - 4*a*cc
		if discriminant >= 0 {
			sqrtD := math.Sqrt(discriminant)
			for _, t := range []float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
				if t <= Epsilon {
					continue
				}
				p := ray.At(t)
				if math.Abs(p.Z) <= c.HalfHeight+Epsilon {
					normal := core.NewVec3(p.X, p.Y, 0).Normalize()
					hits = append(hits, Intersection{T: t, Point: p, Normal: normal, Facet: "lateral"})
				}
			}
		}
	}

	for _, sign := range []float64{-1, 1} {
		if math.Abs(ray.Direction.Z) < 1e-12 {
			continue
		}
		capZ := sign * c.HalfHeight
		t := (capZ - ray.Origin.Z) / ray.Direction.Z
		if t <= Epsilon {
			continue
		}
		p := ray.At(t)
		if p.X*p.X+p.Y*p.Y <= c.Radius*c.Radius+Epsilon {
			facet := "cap-bottom"
			if sign > 0 {
				facet = "cap-top"
			}
			hits = append(hits, Intersection{T: t, Point: p, Normal: core.NewVec3(0, 0, sign), Facet: facet})
		}
	}

	return sortIntersectionsAscending(hits)
}

// Contains classifies point against the finite solid cylinder.
func (c *Cylinder) Contains(point core.Vec3) Containment {
	radial := math.Hypot(point.X, point.Y)
	radialGap := radial - c.Radius
	axialGap := math.Abs(point.Z) - c.HalfHeight

	if radialGap > Epsilon || axialGap > Epsilon {
		return Outside
	}
	if math.Abs(radialGap) <= Epsilon || math.Abs(axialGap) <= Epsilon {
		return OnSurface
	}
	return Inside
}

// BoundingBox returns the axis-aligned box circumscribing the cylinder.
func (c *Cylinder) BoundingBox() AABB {
	return AABB{
		Min: core.NewVec3(-c.Radius, -c.Radius, -c.HalfHeight),
		Max: core.NewVec3(c.Radius, c.Radius, c.HalfHeight),
	}
}
