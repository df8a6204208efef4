// Package report assembles the optimizer output into the structure the
// rendering layer consumes. It only rearranges arithmetic already available
// on the cutting plan and the demand; nothing is recomputed.
package report

import (
	"github.com/piwi3910/beamcut/internal/engine"
	"github.com/piwi3910/beamcut/internal/model"
)

// Report is the final cutting plan summary. Field names follow the shape
// the result page renders: per-beam patterns for the plot, total waste,
// beam count, utilization and the per-length demand table.
type Report struct {
	RawLength         float64         `json:"raw_length"`
	GenotypeWaste     float64         `json:"genotype_waste"`
	BeamCount         int             `json:"beam_count"`
	AllElementsLength float64         `json:"all_elements_length"`
	StockUtilization  float64         `json:"surowca_utilization"`
	UniqueLengths     model.Histogram `json:"unique_element_lengths_and_count_dict"`
	Patterns          []model.Pattern `json:"patterns"`
	Generations       int             `json:"generations"`
	Cancelled         bool            `json:"cancelled"`
}

// Build assembles the report from the demand and the solver result.
func Build(demand *model.Demand, res *engine.Result) Report {
	return Report{
		RawLength:         demand.RawLength,
		GenotypeWaste:     res.Plan.TotalWaste(),
		BeamCount:         res.Plan.BeamCount(),
		AllElementsLength: demand.TotalLength,
		StockUtilization:  res.Plan.Utilization(),
		UniqueLengths:     demand.Lengths,
		Patterns:          res.Plan.Patterns,
		Generations:       res.Generations,
		Cancelled:         res.Cancelled,
	}
}
