package geometry

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// Sphere is a solid ball of the given radius centered on the local origin.
type Sphere struct {
	Radius float64
}

// NewSphere returns a sphere of the given radius.
func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

// Intersections solves the quadratic |O + tD|^2 = r^2 and, unlike a
// closest-hit renderer, returns both roots (grounded on the quadratic
// solve in the teacher's pkg/geometry/sphere.go, generalized from
// "closest positive root" to "every positive root" since a photon that
// enters a sphere must also see the exit crossing).
func (s *Sphere) Intersections(ray core.Ray) []Intersection {
	oc := ray.Origin
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return nil
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)

	hits := make([]Intersection, 0, 2)
	for _, t := range []float64{t1, t2} {
		if t <= Epsilon {
			continue
		}
		point := ray.At(t)
		hits = append(hits, Intersection{
			T:      t,
			Point:  point,
			Normal: point.Normalize(),
			Facet:  "surface",
		})
	}
	return sortIntersectionsAscending(hits)
}

// Contains classifies point against the sphere's surface.
func (s *Sphere) Contains(point core.Vec3) Containment {
	d := point.Length()
	switch {
	case d < s.Radius-Epsilon:
		return Inside
	case d > s.Radius+Epsilon:
		return Outside
	default:
		return OnSurface
	}
}

// BoundingBox returns the axis-aligned box circumscribing the sphere.
func (s *Sphere) BoundingBox() AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return AABB{Min: r.Negate(), Max: r}
}
