package material

import (
	"math"
	"testing"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/spectrum"
)

func flatTable(t *testing.T, value float64) *spectrum.Table {
	t.Helper()
	table, err := spectrum.NewTable([]float64{300, 900}, []float64{value, value})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestMaterial_IsInert(t *testing.T) {
	m := NewMaterial("glass", ConstantIndex(1.5))
	if !m.IsInert() {
		t.Error("expected empty-component material to be inert")
	}
}

func TestMaterial_SampleInteractionDistance_ZeroExtinctionIsInfinite(t *testing.T) {
	m := NewMaterial("glass", ConstantIndex(1.5))
	sampler := core.NewSeededSampler(3)
	d := m.SampleInteractionDistance(500, sampler)
	if !math.IsInf(d, 1) {
		t.Errorf("SampleInteractionDistance() = %v, want +Inf", d)
	}
}

func TestMaterial_SampleInteractionDistance_Positive(t *testing.T) {
	absorber := NewAbsorber("dye", flatTable(t, 0.5))
	m := NewMaterial("host", ConstantIndex(1.5), absorber)
	sampler := core.NewSeededSampler(9)
	for i := 0; i < 20; i++ {
		d := m.SampleInteractionDistance(500, sampler)
		if d <= 0 || math.IsInf(d, 1) {
			t.Fatalf("SampleInteractionDistance() = %v, want finite positive", d)
		}
	}
}

func TestMaterial_SelectComponent_SingleComponent(t *testing.T) {
	absorber := NewAbsorber("dye", flatTable(t, 0.5))
	m := NewMaterial("host", ConstantIndex(1.5), absorber)
	sampler := core.NewSeededSampler(11)
	got, err := m.SelectComponent(500, sampler)
	if err != nil {
		t.Fatalf("SelectComponent: %v", err)
	}
	if got.Name() != "dye" {
		t.Errorf("SelectComponent() = %q, want dye", got.Name())
	}
}

func TestLuminophore_QuantumYieldValidation(t *testing.T) {
	emission := flatTable(t, 1)
	if _, err := NewLuminophore("dye", nil, emission, 0, nil); err == nil {
		t.Error("expected error for qy=0")
	}
	if _, err := NewLuminophore("dye", nil, emission, 1.5, nil); err == nil {
		t.Error("expected error for qy>1")
	}
	if _, err := NewLuminophore("dye", nil, nil, 0.9, nil); err == nil {
		t.Error("expected error for missing emission spectrum")
	}
}

func TestScatterer_ReemitsAtSameWavelength(t *testing.T) {
	s := NewScatterer("particulate", flatTable(t, 1), nil)
	sampler := core.NewSeededSampler(5)
	got, err := s.SampleEmissionWavelength(532, sampler)
	if err != nil {
		t.Fatalf("SampleEmissionWavelength: %v", err)
	}
	if got != 532 {
		t.Errorf("SampleEmissionWavelength() = %v, want 532", got)
	}
	if s.QuantumYield() != 1 {
		t.Errorf("QuantumYield() = %v, want 1", s.QuantumYield())
	}
}

func TestAbsorber_NeverReemits(t *testing.T) {
	a := NewAbsorber("black", flatTable(t, 1))
	if a.QuantumYield() != 0 {
		t.Errorf("QuantumYield() = %v, want 0", a.QuantumYield())
	}
	if _, err := a.SampleEmissionWavelength(500, core.NewSeededSampler(1)); err == nil {
		t.Error("expected error sampling emission from an absorber")
	}
}
