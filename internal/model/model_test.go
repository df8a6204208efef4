package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewDemandBuildsInstances(t *testing.T) {
	d, err := NewDemand(100, []RequiredPart{
		{Length: 50, Quantity: 2},
		{Length: 30, Quantity: 1},
		{Length: 20, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.InstanceCount() != 4 {
		t.Errorf("expected 4 instances, got %d", d.InstanceCount())
	}
	want := []float64{50, 50, 30, 20}
	for i, l := range want {
		if d.Instances[i] != l {
			t.Errorf("instance %d: expected %v, got %v", i, l, d.Instances[i])
		}
	}
	if d.TotalLength != 150 {
		t.Errorf("expected total length 150, got %v", d.TotalLength)
	}
}

func TestNewDemandMergesDuplicateLengths(t *testing.T) {
	d, err := NewDemand(100, []RequiredPart{
		{Length: 50, Quantity: 1},
		{Length: 20, Quantity: 2},
		{Length: 50, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Lengths) != 2 {
		t.Fatalf("expected 2 unique lengths, got %d", len(d.Lengths))
	}
	if d.Lengths.Count(50) != 4 {
		t.Errorf("expected 4 pieces of length 50, got %d", d.Lengths.Count(50))
	}
	if d.Lengths.Count(20) != 2 {
		t.Errorf("expected 2 pieces of length 20, got %d", d.Lengths.Count(20))
	}
	// First-seen order is preserved for the report.
	if d.Lengths[0].Length != 50 || d.Lengths[1].Length != 20 {
		t.Errorf("expected lengths in first-seen order [50 20], got %v", d.Lengths)
	}
}

func TestNewDemandRejectsBadInput(t *testing.T) {
	cases := []struct {
		name      string
		rawLength float64
		parts     []RequiredPart
	}{
		{"zero raw length", 0, []RequiredPart{{Length: 10, Quantity: 1}}},
		{"negative raw length", -5, []RequiredPart{{Length: 10, Quantity: 1}}},
		{"empty part list", 100, nil},
		{"zero part length", 100, []RequiredPart{{Length: 0, Quantity: 1}}},
		{"negative part length", 100, []RequiredPart{{Length: -3, Quantity: 1}}},
		{"zero quantity", 100, []RequiredPart{{Length: 10, Quantity: 0}}},
		{"negative quantity", 100, []RequiredPart{{Length: 10, Quantity: -2}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDemand(tc.rawLength, tc.parts)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("expected InvalidInputError, got %v", err)
			}
		})
	}
}

func TestNewDemandRejectsOversizedPart(t *testing.T) {
	_, err := NewDemand(100, []RequiredPart{
		{Length: 50, Quantity: 1},
		{Length: 150, Quantity: 1},
	})

	var infeasible *InfeasiblePartError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected InfeasiblePartError, got %v", err)
	}
	if infeasible.Length != 150 || infeasible.RawLength != 100 {
		t.Errorf("error does not name the offending part: %+v", infeasible)
	}
}

func TestNewDemandAcceptsPartEqualToRawLength(t *testing.T) {
	d, err := NewDemand(100, []RequiredPart{{Length: 100, Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.InstanceCount() != 1 {
		t.Errorf("expected 1 instance, got %d", d.InstanceCount())
	}
}

func TestHistogramMarshalJSONKeepsOrder(t *testing.T) {
	h := Histogram{
		{Length: 50, Count: 2},
		{Length: 30, Count: 1},
		{Length: 20.5, Count: 4},
	}

	out, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"50":2,"30":1,"20.5":4}`
	if string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
}

func TestFormatLength(t *testing.T) {
	cases := map[float64]string{
		2000:  "2000",
		20.5:  "20.5",
		0.125: "0.125",
	}
	for in, want := range cases {
		if got := FormatLength(in); got != want {
			t.Errorf("FormatLength(%v): expected %s, got %s", in, want, got)
		}
	}
}

func TestPatternIDIsStable(t *testing.T) {
	a := PatternID([]float64{50, 30, 20})
	b := PatternID([]float64{50, 30, 20})
	c := PatternID([]float64{30, 50, 20})

	if a != b {
		t.Errorf("identical patterns should share an ID: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different cut orders should not share an ID: %s", a)
	}
}

func TestCuttingPlanAggregates(t *testing.T) {
	plan := CuttingPlan{
		RawLength: 100,
		Patterns: []Pattern{
			{Lengths: []float64{50, 50}, Used: 100, Waste: 0},
			{Lengths: []float64{30, 20}, Used: 50, Waste: 50},
		},
	}

	if plan.BeamCount() != 2 {
		t.Errorf("expected 2 beams, got %d", plan.BeamCount())
	}
	if plan.TotalWaste() != 50 {
		t.Errorf("expected waste 50, got %v", plan.TotalWaste())
	}
	if plan.TotalPartsLength() != 150 {
		t.Errorf("expected parts length 150, got %v", plan.TotalPartsLength())
	}
	if got := plan.Utilization(); got != 75 {
		t.Errorf("expected 75%% utilization, got %v", got)
	}
}

func TestEmptyPlanUtilization(t *testing.T) {
	var plan CuttingPlan
	if got := plan.Utilization(); got != 0 {
		t.Errorf("expected 0 utilization for empty plan, got %v", got)
	}
}
