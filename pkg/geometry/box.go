package geometry

import (
	"math"

	"github.com/opticore/lumentrace/pkg/core"
)

// Box is a solid rectangular prism centered on the local origin, with the
// given full extents along each axis (grounded on the teacher's
// pkg/geometry/box.go, which builds a box from six independent Quad
// faces; here the six faces are represented directly as slabs since a
// non-imaging box never needs the per-face UV/rotation machinery the
// renderer's box carries).
type Box struct {
	Extent core.Vec3 // full width/height/depth
}

// NewBox returns a box with the given full extents.
func NewBox(width, height, depth float64) *Box {
	return &Box{Extent: core.NewVec3(width, height, depth)}
}

func (b *Box) half() core.Vec3 {
	return b.Extent.Multiply(0.5)
}

// Intersections finds every crossing of ray with the box's six faces
// using the slab method, keeping both the near and far axis-crossing
// points (not just the interval endpoints a renderer would keep) so a
// photon's entry and exit are both reported.
func (b *Box) Intersections(ray core.Ray) []Intersection {
	half := b.half()
	lo := half.Negate()
	hi := half

	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	loArr := [3]float64{lo.X, lo.Y, lo.Z}
	hiArr := [3]float64{hi.X, hi.Y, hi.Z}

	tMin, tMax := math.Inf(-1), math.Inf(1)
	axisMin, axisMax := -1, -1
	signMin, signMax := 1.0, 1.0

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < loArr[axis] || origin[axis] > hiArr[axis] {
				return nil
			}
			continue
		}
		inv := 1.0 / dir[axis]
		t1, t2 := (loArr[axis]-origin[axis])*inv, (hiArr[axis]-origin[axis])*inv
		sign1, sign2 := -1.0, 1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign1, sign2 = sign2, sign1
		}
		if t1 > tMin {
			tMin, axisMin, signMin = t1, axis, sign1
		}
		if t2 < tMax {
			tMax, axisMax, signMax = t2, axis, sign2
		}
	}

	if tMin > tMax || axisMin < 0 || axisMax < 0 {
		return nil
	}

	faceName := func(axis int, sign float64) string {
		names := [3]string{"x", "y", "z"}
		if sign < 0 {
			return "-" + names[axis]
		}
		return "+" + names[axis]
	}
	normalFor := func(axis int, sign float64) core.Vec3 {
		v := [3]float64{0, 0, 0}
		v[axis] = sign
		return core.NewVec3(v[0], v[1], v[2])
	}

	hits := make([]Intersection, 0, 2)
	if tMin > Epsilon {
		hits = append(hits, Intersection{T: tMin, Point: ray.At(tMin), Normal: normalFor(axisMin, signMin), Facet: faceName(axisMin, signMin)})
	}
	if tMax > Epsilon {
		hits = append(hits, Intersection{T: tMax, Point: ray.At(tMax), Normal: normalFor(axisMax, signMax), Facet: faceName(axisMax, signMax)})
	}
	return sortIntersectionsAscending(hits)
}

// Contains classifies point against the box.
func (b *Box) Contains(point core.Vec3) Containment {
	half := b.half()
	dx, dy, dz := math.Abs(point.X)-half.X, math.Abs(point.Y)-half.Y, math.Abs(point.Z)-half.Z

	if dx > Epsilon || dy > Epsilon || dz > Epsilon {
		return Outside
	}
	if math.Abs(dx) <= Epsilon || math.Abs(dy) <= Epsilon || math.Abs(dz) <= Epsilon {
		return OnSurface
	}
	return Inside
}

// BoundingBox returns the box's own extents, since it is already
// axis-aligned in its local frame.
func (b *Box) BoundingBox() AABB {
	half := b.half()
	return AABB{Min: half.Negate(), Max: half}
}
