package geometry

import (
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
)

func TestSphere_Intersections(t *testing.T) {
	s := NewSphere(1)
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	hits := s.Intersections(ray)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if got, want := hits[0].T, 4.0; got != want {
		t.Errorf("entry T = %v, want %v", got, want)
	}
	if got, want := hits[1].T, 6.0; got != want {
		t.Errorf("exit T = %v, want %v", got, want)
	}
	if !hits[0].Point.ApproxEqual(core.NewVec3(-1, 0, 0), 1e-9) {
		t.Errorf("entry point = %v, want (-1,0,0)", hits[0].Point)
	}
}

func TestSphere_Intersections_Miss(t *testing.T) {
	s := NewSphere(1)
	ray := core.NewRay(core.NewVec3(-5, 5, 0), core.NewVec3(1, 0, 0))
	if hits := s.Intersections(ray); len(hits) != 0 {
		t.Errorf("got %d hits for a grazing miss, want 0", len(hits))
	}
}

func TestSphere_Contains(t *testing.T) {
	s := NewSphere(2)
	cases := []struct {
		point core.Vec3
		want  Containment
	}{
		{core.NewVec3(0, 0, 0), Inside},
		{core.NewVec3(1, 0, 0), Inside},
		{core.NewVec3(2, 0, 0), OnSurface},
		{core.NewVec3(3, 0, 0), Outside},
	}
	for _, c := range cases {
		if got := s.Contains(c.point); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.point, got, c.want)
		}
	}
}
