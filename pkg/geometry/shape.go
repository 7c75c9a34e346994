// Package geometry provides the closed-surface primitives the scene graph
// attaches to nodes: sphere, axis-aligned box, finite cylinder and
// triangle mesh. Each one answers three questions about a world-space (or,
// once transformed into a node's local frame, local-space) ray or point:
// where does the ray cross the surface, is a point inside/on/outside it,
// and what is the outward normal at a surface point.
package geometry

import (
	"math"
	"sort"

	"github.com/opticore/lumentrace/pkg/core"
)

// Epsilon is the numerical tolerance used throughout geometry: roots
// within Epsilon of the ray origin are dropped (a ray leaving a surface
// must not immediately re-intersect it), and points within Epsilon of a
// surface count as on it rather than strictly inside or outside.
const Epsilon = 1e-9

// Containment is the result of testing a point against a closed surface.
type Containment int

const (
	Outside Containment = iota
	OnSurface
	Inside
)

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case OnSurface:
		return "on-surface"
	default:
		return "outside"
	}
}

// Intersection is one crossing of a ray with a shape's surface.
type Intersection struct {
	T      float64 // ray parameter, always > 0
	Point  core.Vec3
	Normal core.Vec3 // outward unit normal at Point
	Facet  string    // opaque facet id: triangle index, box face code, ...
}

// Shape is the capability every geometry primitive provides. The set of
// implementations is closed and fixed (sphere, box, cylinder, mesh), so a
// tagged union would also work, but an interface keeps each primitive's
// math self-contained and is what the teacher's own Shape interface
// (pkg/geometry/shape.go) already does.
type Shape interface {
	// Intersections returns every positive-t crossing of ray with the
	// surface, ordered ascending by T. Roots that coincide with the ray
	// origin (within Epsilon) are dropped.
	Intersections(ray core.Ray) []Intersection

	// Contains classifies a point against the surface.
	Contains(point core.Vec3) Containment

	// BoundingBox returns a local-space axis-aligned bounding box, used by
	// the intersection service as a broad-phase reject test.
	BoundingBox() AABB
}

// AABB is an axis-aligned bounding box in whatever frame it was built in.
type AABB struct {
	Min, Max core.Vec3
}

// NewAABBFromPoints returns the smallest AABB containing every point.
func NewAABBFromPoints(points ...core.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = core.NewVec3(math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z))
		max = core.NewVec3(math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z))
	}
	return AABB{Min: min, Max: max}
}

// Hit tests whether ray passes through the box within [tMin, tMax], using
// the slab method.
func (b AABB) Hit(ray core.Ray, tMin, tMax float64) bool {
	origin, dir := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}, [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo, hi := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}, [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}
		inv := 1.0 / dir[axis]
		t1, t2 := (lo[axis]-origin[axis])*inv, (hi[axis]-origin[axis])*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Corners returns the eight corners of the box, used to re-derive a
// bounding box after a transform.
func (b AABB) Corners() [8]core.Vec3 {
	return [8]core.Vec3{
		core.NewVec3(b.Min.X, b.Min.Y, b.Min.Z),
		core.NewVec3(b.Max.X, b.Min.Y, b.Min.Z),
		core.NewVec3(b.Min.X, b.Max.Y, b.Min.Z),
		core.NewVec3(b.Max.X, b.Max.Y, b.Min.Z),
		core.NewVec3(b.Min.X, b.Min.Y, b.Max.Z),
		core.NewVec3(b.Max.X, b.Min.Y, b.Max.Z),
		core.NewVec3(b.Min.X, b.Max.Y, b.Max.Z),
		core.NewVec3(b.Max.X, b.Max.Y, b.Max.Z),
	}
}

// sortIntersectionsAscending orders hits by T, dropping near-origin roots.
func sortIntersectionsAscending(hits []Intersection) []Intersection {
	filtered := hits[:0]
	for _, h := range hits {
		if h.T > Epsilon {
			filtered = append(filtered, h)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].T < filtered[j].T })
	return filtered
}
