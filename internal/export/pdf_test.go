package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/report"
)

// buildTestReport creates a realistic cutting plan report for testing.
func buildTestReport() report.Report {
	return report.Report{
		RawLength:         100,
		GenotypeWaste:     50,
		BeamCount:         2,
		AllElementsLength: 150,
		StockUtilization:  75,
		UniqueLengths: model.Histogram{
			{Length: 50, Count: 2},
			{Length: 30, Count: 1},
			{Length: 20, Count: 1},
		},
		Patterns: []model.Pattern{
			{ID: model.PatternID([]float64{50, 50}), Lengths: []float64{50, 50}, Used: 100, Waste: 0},
			{ID: model.PatternID([]float64{30, 20}), Lengths: []float64{30, 20}, Used: 50, Waste: 50},
		},
		Generations: 12,
	}
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("output file %s is empty", path)
	}
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportPDF(path, buildTestReport()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportPDFManyBeams(t *testing.T) {
	rep := buildTestReport()
	// Enough beams to force pagination.
	for i := 0; i < 40; i++ {
		rep.Patterns = append(rep.Patterns, model.Pattern{
			ID: model.PatternID([]float64{60}), Lengths: []float64{60}, Used: 60, Waste: 40,
		})
	}
	rep.BeamCount = len(rep.Patterns)

	path := filepath.Join(t.TempDir(), "plan.pdf")
	if err := ExportPDF(path, rep); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportPDFEmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportPDF(path, report.Report{}); err == nil {
		t.Error("expected an error for an empty plan")
	}
}

func TestColorIndexFollowsHistogramOrder(t *testing.T) {
	hist := model.Histogram{
		{Length: 50, Count: 2},
		{Length: 30, Count: 1},
	}

	if got := colorIndex(hist, 50); got != 0 {
		t.Errorf("expected color index 0 for first length, got %d", got)
	}
	if got := colorIndex(hist, 30); got != 1 {
		t.Errorf("expected color index 1 for second length, got %d", got)
	}
}
