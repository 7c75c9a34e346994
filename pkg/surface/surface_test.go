package surface

import (
	"math"
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
)

func TestFresnel_NormalIncidenceReflectanceMatchesClassicFormula(t *testing.T) {
	n1, n2 := 1.0, 1.5
	incident := core.NewVec3(0, 0, 1)
	normal := core.NewVec3(0, 0, -1)

	r := (n1 - n2) / (n1 + n2)
	want := r * r

	reflects := 0
	trials := 20000
	sampler := core.NewSeededSampler(123)
	for i := 0; i < trials; i++ {
		out := Fresnel{}.Interact(incident, normal, n1, n2, sampler)
		if out.Decision == Reflect {
			reflects++
		}
	}
	got := float64(reflects) / float64(trials)
	if math.Abs(got-want) > 0.02 {
		t.Errorf("reflectance fraction = %v, want ~%v", got, want)
	}
}

func TestFresnel_TotalInternalReflection(t *testing.T) {
	n1, n2 := 1.5, 1.0
	// angle of incidence beyond critical angle asin(1/1.5) ~ 41.8deg
	incident := core.NewVec3(math.Sin(1.2), 0, math.Cos(1.2))
	normal := core.NewVec3(0, 0, -1)
	sampler := core.NewSeededSampler(9)

	out := Fresnel{}.Interact(incident, normal, n1, n2, sampler)
	if out.Decision != Reflect {
		t.Errorf("Decision = %v, want Reflect (TIR)", out.Decision)
	}
}

func TestFresnel_ReflectDirectionMirrorsNormal(t *testing.T) {
	incident := core.NewVec3(1, 0, -1).Normalize()
	normal := core.NewVec3(0, 0, 1)
	got := reflect(incident, normal, -incident.Dot(normal))
	want := core.NewVec3(1, 0, 1).Normalize()
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("reflect() = %v, want %v", got, want)
	}
}

func TestCoated_AbsorbsWithGivenProbability(t *testing.T) {
	c := Coated{AbsorptionFraction: 1}
	sampler := core.NewSeededSampler(1)
	out := c.Interact(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), 1, 1.5, sampler)
	if out.Decision != Absorb {
		t.Errorf("Decision = %v, want Absorb", out.Decision)
	}
}
