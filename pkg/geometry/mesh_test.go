package geometry

import (
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
)

// unitCubeMesh builds a closed, outward-wound triangulated cube from -1
// to 1 on every axis, used to exercise TriangleMesh against the same
// shapes the analytic primitives are tested with.
func unitCubeMesh() *TriangleMesh {
	v := []core.Vec3{
		core.NewVec3(-1, -1, -1), // 0
		core.NewVec3(1, -1, -1),  // 1
		core.NewVec3(1, 1, -1),   // 2
		core.NewVec3(-1, 1, -1),  // 3
		core.NewVec3(-1, -1, 1),  // 4
		core.NewVec3(1, -1, 1),   // 5
		core.NewVec3(1, 1, 1),    // 6
		core.NewVec3(-1, 1, 1),   // 7
	}
	tris := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // -z
		{4, 5, 6}, {4, 6, 7}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{3, 7, 6}, {3, 6, 2}, // +y
		{0, 4, 7}, {0, 7, 3}, // -x
		{1, 2, 6}, {1, 6, 5}, // +x
	}
	return NewTriangleMesh(v, tris)
}

func TestTriangleMesh_Intersections(t *testing.T) {
	m := unitCubeMesh()
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	hits := m.Intersections(ray)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if got, want := hits[0].T, 4.0; got != want {
		t.Errorf("entry T = %v, want %v", got, want)
	}
	if got, want := hits[1].T, 6.0; got != want {
		t.Errorf("exit T = %v, want %v", got, want)
	}
}

func TestTriangleMesh_Contains(t *testing.T) {
	m := unitCubeMesh()
	if got := m.Contains(core.NewVec3(0, 0, 0)); got != Inside {
		t.Errorf("Contains(origin) = %v, want Inside", got)
	}
	if got := m.Contains(core.NewVec3(5, 5, 5)); got != Outside {
		t.Errorf("Contains(far point) = %v, want Outside", got)
	}
}
