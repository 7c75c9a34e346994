package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opticore/lumentrace/pkg/core"
)

// Vertex stores a mesh corner at single precision, per spec.md §4.1's
// "mesh precision is single-precision by default" note — a large mesh's
// vertex buffer is the one geometry representation in this package where
// halving the per-component storage actually matters, so unlike
// core.Vec3 (used everywhere a value is computed rather than stored),
// Vertex trades precision for size.
type Vertex struct {
	X, Y, Z float32
}

// Vec3 promotes a Vertex to a double-precision core.Vec3 for the
// intersection math; the Möller-Trumbore routine and its cross/dot
// products run at float64 regardless of storage precision, so precision
// loss is confined to the corner positions themselves, not compounded
// across the arithmetic.
func (v Vertex) Vec3() core.Vec3 { return core.NewVec3(float64(v.X), float64(v.Y), float64(v.Z)) }

func vertexOf(v core.Vec3) Vertex {
	return Vertex{X: float32(v.Vec.X), Y: float32(v.Vec.Y), Z: float32(v.Vec.Z)}
}

// TriangleMesh is a closed, watertight triangulated surface. Intersection
// uses the Möller-Trumbore algorithm directly against gonum's r3.Vec,
// grounded on other_examples/aclements-shade's Ray.IntersectTriangle;
// unlike that renderer routine, which stops at the closest hit, every
// triangle is tested and every positive-t crossing is kept, since a
// photon passing through the mesh must see both its entry and exit
// facets.
type TriangleMesh struct {
	Vertices  []Vertex
	Triangles [][3]int // vertex indices, counter-clockwise when viewed from outside
}

// NewTriangleMesh returns a mesh over the given vertices and triangle
// index triples, storing each vertex at single precision. The caller is
// responsible for supplying a closed, outward-wound surface; Build in
// pkg/scenebuild checks that the surface is closed, but not its winding.
func NewTriangleMesh(vertices []core.Vec3, triangles [][3]int) *TriangleMesh {
	stored := make([]Vertex, len(vertices))
	for i, v := range vertices {
		stored[i] = vertexOf(v)
	}
	return &TriangleMesh{Vertices: stored, Triangles: triangles}
}

const meshEpsilon = 1e-9

func (m *TriangleMesh) triangleVerts(tri [3]int) (r3.Vec, r3.Vec, r3.Vec) {
	a := m.Vertices[tri[0]].Vec3().Vec
	b := m.Vertices[tri[1]].Vec3().Vec
	c := m.Vertices[tri[2]].Vec3().Vec
	return a, b, c
}

// intersectTriangle mirrors aclements-shade's Möller-Trumbore routine,
// returning the barycentric-free hit distance and whether it registered.
func intersectTriangle(origin, dir, v0, v1, v2 r3.Vec) (t float64, ok bool) {
	edge1 := r3.Sub(v1, v0)
	edge2 := r3.Sub(v2, v0)
	h := r3.Cross(dir, edge2)
	det := r3.Dot(edge1, h)
	if det > -meshEpsilon && det < meshEpsilon {
		return 0, false
	}
	invDet := 1 / det
	s := r3.Sub(origin, v0)
	u := invDet * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, edge1)
	v := invDet * r3.Dot(dir, q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = invDet * r3.Dot(edge2, q)
	if t < meshEpsilon {
		return 0, false
	}
	return t, true
}

// Intersections tests ray against every triangle, returning every
// positive-t crossing in ascending order. A ray through an edge or vertex
// shared by several triangles registers on each of them; hits within
// meshEpsilon of the previous one are dropped so each crossing is
// reported once.
func (m *TriangleMesh) Intersections(ray core.Ray) []Intersection {
	hits := make([]Intersection, 0, 2)
	for idx, tri := range m.Triangles {
		v0, v1, v2 := m.triangleVerts(tri)
		t, ok := intersectTriangle(ray.Origin.Vec, ray.Direction.Vec, v0, v1, v2)
		if !ok {
			continue
		}
		normal := core.FromR3(r3.Unit(r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))))
		hits = append(hits, Intersection{
			T:      t,
			Point:  ray.At(t),
			Normal: normal,
			Facet:  fmt.Sprintf("triangle-%d", idx),
		})
	}
	sorted := sortIntersectionsAscending(hits)
	deduped := sorted[:0]
	for _, h := range sorted {
		if n := len(deduped); n > 0 && h.T-deduped[n-1].T <= meshEpsilon {
			continue
		}
		deduped = append(deduped, h)
	}
	return deduped
}

// Contains uses the standard even-odd ray-casting rule: cast a ray from
// point along an arbitrary fixed direction and count crossings. An odd
// count means the point is inside a closed, watertight mesh.
func (m *TriangleMesh) Contains(point core.Vec3) Containment {
	probe := core.NewRay(point, core.NewVec3(0.6123724357, 0.5773502692, 0.5372849659).Normalize())
	crossings := 0
	for _, tri := range m.Triangles {
		v0, v1, v2 := m.triangleVerts(tri)
		t, ok := intersectTriangle(probe.Origin.Vec, probe.Direction.Vec, v0, v1, v2)
		if !ok {
			continue
		}
		distance := math.Abs(t)
		if distance <= meshEpsilon {
			return OnSurface
		}
		crossings++
	}
	if crossings%2 == 1 {
		return Inside
	}
	return Outside
}

// BoundingBox returns the box circumscribing every vertex.
func (m *TriangleMesh) BoundingBox() AABB {
	points := make([]core.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		points[i] = v.Vec3()
	}
	return NewAABBFromPoints(points...)
}
