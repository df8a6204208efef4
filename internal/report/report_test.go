package report

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/piwi3910/beamcut/internal/engine"
	"github.com/piwi3910/beamcut/internal/model"
)

func solveFixture(t *testing.T) (*model.Demand, *engine.Result) {
	t.Helper()
	demand, err := model.NewDemand(100, []model.RequiredPart{
		{Length: 50, Quantity: 2},
		{Length: 30, Quantity: 1},
		{Length: 20, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("demand setup failed: %v", err)
	}
	cfg := model.DefaultSolverConfig()
	cfg.Workers = 1
	solver, err := engine.New(cfg, demand)
	if err != nil {
		t.Fatalf("solver setup failed: %v", err)
	}
	res, err := solver.Solve(context.Background())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	return demand, res
}

func TestBuildReportAggregates(t *testing.T) {
	demand, res := solveFixture(t)

	rep := Build(demand, res)

	if rep.RawLength != 100 {
		t.Errorf("expected raw length 100, got %v", rep.RawLength)
	}
	if rep.BeamCount != 2 {
		t.Errorf("expected 2 beams, got %d", rep.BeamCount)
	}
	if rep.GenotypeWaste != 50 {
		t.Errorf("expected waste 50, got %v", rep.GenotypeWaste)
	}
	if rep.AllElementsLength != 150 {
		t.Errorf("expected total parts length 150, got %v", rep.AllElementsLength)
	}
	if rep.StockUtilization != 75 {
		t.Errorf("expected 75%% utilization, got %v", rep.StockUtilization)
	}
	if len(rep.Patterns) != rep.BeamCount {
		t.Errorf("pattern count %d does not match beam count %d", len(rep.Patterns), rep.BeamCount)
	}
	if rep.Generations < 1 {
		t.Error("generations must be at least 1")
	}
}

func TestReportJSONShape(t *testing.T) {
	demand, res := solveFixture(t)

	out, err := json.Marshal(Build(demand, res))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(out)

	for _, key := range []string{
		`"raw_length"`,
		`"genotype_waste"`,
		`"beam_count"`,
		`"all_elements_length"`,
		`"surowca_utilization"`,
		`"unique_element_lengths_and_count_dict"`,
	} {
		if !strings.Contains(s, key) {
			t.Errorf("report JSON is missing %s", key)
		}
	}
	// The demand table serializes as an object keyed by length.
	if !strings.Contains(s, `"unique_element_lengths_and_count_dict":{"50":2,"30":1,"20":1}`) {
		t.Errorf("unexpected demand table serialization: %s", s)
	}
}
