package lightsource

import (
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
)

func TestLightSource_Emit_Collimated(t *testing.T) {
	l := NewLightSource(nil, nil, MonochromaticWavelength{Lambda: 532})
	sampler := core.NewSeededSampler(1)

	e, err := l.Emit(sampler)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if e.Lambda != 532 {
		t.Errorf("Lambda = %v, want 532", e.Lambda)
	}
	if !e.Ray.Direction.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Direction = %v, want +z", e.Ray.Direction)
	}
	if !e.Ray.Origin.ApproxEqual(core.NewVec3(0, 0, 0), 1e-12) {
		t.Errorf("Origin = %v, want origin", e.Ray.Origin)
	}
}

func TestLightSource_Emit_SquareMask(t *testing.T) {
	l := NewLightSource(SquareMaskPosition{Width: 2, Height: 4}, nil, MonochromaticWavelength{Lambda: 500})
	sampler := core.NewSeededSampler(2)

	for i := 0; i < 20; i++ {
		e, err := l.Emit(sampler)
		if err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if e.Ray.Origin.X < -1 || e.Ray.Origin.X > 1 {
			t.Fatalf("Origin.X = %v, want within [-1,1]", e.Ray.Origin.X)
		}
		if e.Ray.Origin.Y < -2 || e.Ray.Origin.Y > 2 {
			t.Fatalf("Origin.Y = %v, want within [-2,2]", e.Ray.Origin.Y)
		}
	}
}

func TestLightSource_Emit_ConeDirectionStaysUnit(t *testing.T) {
	l := NewLightSource(nil, ConeDirection{HalfAngle: 0.3}, MonochromaticWavelength{Lambda: 500})
	sampler := core.NewSeededSampler(4)

	for i := 0; i < 20; i++ {
		e, err := l.Emit(sampler)
		if err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if length := e.Ray.Direction.Length(); length < 0.999 || length > 1.001 {
			t.Fatalf("Direction length = %v, want ~1", length)
		}
	}
}

func TestLightSource_EmitN_Count(t *testing.T) {
	l := NewLightSource(nil, nil, MonochromaticWavelength{Lambda: 500})
	sampler := core.NewSeededSampler(6)

	emissions, err := l.EmitN(10, sampler)
	if err != nil {
		t.Fatalf("EmitN: %v", err)
	}
	if len(emissions) != 10 {
		t.Fatalf("EmitN returned %d emissions, want 10", len(emissions))
	}
}
