// Package intersect implements the global intersection service described
// in 4.3: given a world-space ray, it walks every node that carries
// geometry, transforms the ray into that node's local frame, and merges
// each node's local intersections into one globally t-ordered list
// tagged with the originating node and an opaque facet id.
package intersect

import (
	"math"
	"sort"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/geometry"
	"github.com/opticore/lumentrace/pkg/scenegraph"
)

// Epsilon is the tie-break tolerance for intersections at (numerically)
// the same distance.
const Epsilon = geometry.Epsilon

// Hit is one globally-ordered ray/geometry crossing.
type Hit struct {
	T      float64
	Point  core.Vec3 // world space
	Normal core.Vec3 // world space, outward from the node's geometry
	Node   scenegraph.NodeIndex
	Name   string
	Facet  string
	Depth  int
}

// Service walks a scene's nodes to answer intersection queries. It holds
// no state of its own; a Service value is safe to share across workers
// exactly like the Scene it queries.
type Service struct{}

// depthOf returns a node's distance from the root by walking parent
// links, used only for intersection tie-breaking.
func depthOf(scene *scenegraph.Scene, idx scenegraph.NodeIndex) int {
	depth := 0
	for {
		node := scene.Node(idx)
		if !node.HasParent {
			return depth
		}
		idx = node.Parent
		depth++
	}
}

// Intersections returns every node's crossings with ray, globally ordered
// ascending by T. Ties within Epsilon are broken first by whether the ray
// is entering or exiting the surface at that hit (entering prefers the
// deeper/inner node so a photon crossing into a nested volume registers
// the inner boundary first; exiting prefers the shallower/outer node),
// then lexicographically by node name, per 4.3. When one tied hit is
// entering and the other exiting, the entering hit comes first, so the
// ray moves into the region its direction points into.
func (Service) Intersections(scene *scenegraph.Scene, ray core.Ray) []Hit {
	var hits []Hit

	scene.Walk(func(idx scenegraph.NodeIndex, node *scenegraph.Node) {
		if node.Geometry == nil {
			return
		}
		world := scene.WorldTransform(idx)
		localRay := world.ToLocal(ray)

		// Broad-phase reject: skip the exact surface test entirely when the
		// ray doesn't even cross the node's bounding box, grounded on the
		// teacher's pkg/core/bvh.go slab-test-before-exact-test shape.
		if !node.Geometry.BoundingBox().Hit(localRay, 0, math.Inf(1)) {
			return
		}

		depth := depthOf(scene, idx)

		for _, local := range node.Geometry.Intersections(localRay) {
			worldPoint := world.ToWorld(local.Point)
			worldNormal := world.ToWorldDirection(local.Normal).Normalize()
			hits = append(hits, Hit{
				T:      local.T,
				Point:  worldPoint,
				Normal: worldNormal,
				Node:   idx,
				Name:   node.Name,
				Facet:  local.Facet,
				Depth:  depth,
			})
		}
	})

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if diff := a.T - b.T; diff < -Epsilon || diff > Epsilon {
			return a.T < b.T
		}
		enteringA := ray.Direction.Dot(a.Normal) < 0
		enteringB := ray.Direction.Dot(b.Normal) < 0
		if enteringA != enteringB {
			// Mixed entering/exiting ties (coincident surfaces of abutting
			// nodes): the entering hit first.
			return enteringA
		}
		if enteringA {
			if a.Depth != b.Depth {
				return a.Depth > b.Depth // inner (deeper) first when entering
			}
		} else {
			if a.Depth != b.Depth {
				return a.Depth < b.Depth // outer (shallower) first when exiting
			}
		}
		return a.Name < b.Name
	})

	return hits
}
