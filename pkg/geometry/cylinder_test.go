package geometry

import (
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
)

func TestCylinder_Intersections_Lateral(t *testing.T) {
	c := NewCylinder(1, 4) // half-height 2
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	hits := c.Intersections(ray)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	for _, h := range hits {
		if h.Facet != "lateral" {
			t.Errorf("facet = %q, want lateral", h.Facet)
		}
	}
}

func TestCylinder_Intersections_Caps(t *testing.T) {
	c := NewCylinder(1, 4)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	hits := c.Intersections(ray)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Facet != "cap-bottom" || hits[1].Facet != "cap-top" {
		t.Errorf("facets = %q, %q, want cap-bottom, cap-top", hits[0].Facet, hits[1].Facet)
	}
}

func TestCylinder_Contains(t *testing.T) {
	c := NewCylinder(1, 4)
	cases := []struct {
		point core.Vec3
		want  Containment
	}{
		{core.NewVec3(0, 0, 0), Inside},
		{core.NewVec3(1, 0, 0), OnSurface},
		{core.NewVec3(0, 0, 2), OnSurface},
		{core.NewVec3(0, 0, 3), Outside},
	}
	for _, tc := range cases {
		if got := c.Contains(tc.point); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.point, got, tc.want)
		}
	}
}
