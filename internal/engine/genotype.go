// Package engine implements the genetic algorithm that searches for a
// near-minimal-waste assignment of part instances to stock beams.
//
// A candidate solution (genotype) is a permutation of the demand's
// part-instance indices. Decoding packs the instances into beams in
// permutation order with a first-fit-into-current-beam rule, so the quality
// of a genotype is entirely a function of its order. Searching over
// permutations keeps the genome length fixed and the crossover operator
// simple, while every genotype decodes to a feasible plan.
package engine

import (
	"math/rand"

	"github.com/piwi3910/beamcut/internal/model"
)

// genotype is one candidate solution: a permutation of part-instance
// indices plus its cached fitness score (lower is better).
type genotype struct {
	order   []int
	fitness float64
}

// cloneOrder returns a freshly allocated copy of a permutation. Children
// never alias their parents' backing arrays.
func cloneOrder(order []int) []int {
	cp := make([]int, len(order))
	copy(cp, order)
	return cp
}

// randomGenotype creates a uniformly random permutation of n instances.
func randomGenotype(n int, rng *rand.Rand) genotype {
	return genotype{order: rng.Perm(n)}
}

// isPermutation reports whether order is a valid permutation of 0..n-1.
// Genetic operators preserve this by construction; the test suite checks it
// explicitly every generation.
func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// decode converts a genotype into a cutting plan. It walks the permutation
// in order, keeping a current beam: an instance that fits the remaining
// capacity is appended, otherwise the beam is closed and a new one opened.
// The last beam is always closed and included, even partially filled.
// Decoding is deterministic and never fails; a part whose length equals
// the raw length exactly fills one beam with zero waste.
func decode(order []int, demand *model.Demand) model.CuttingPlan {
	plan := model.CuttingPlan{RawLength: demand.RawLength}
	if len(order) == 0 {
		return plan
	}

	var current []float64
	var used float64

	closeBeam := func() {
		plan.Patterns = append(plan.Patterns, model.Pattern{
			ID:      model.PatternID(current),
			Lengths: current,
			Used:    used,
			Waste:   demand.RawLength - used,
		})
	}

	for _, idx := range order {
		length := demand.Instances[idx]
		if used+length > demand.RawLength {
			closeBeam()
			current = nil
			used = 0
		}
		current = append(current, length)
		used += length
	}
	closeBeam()

	return plan
}

// fitness scores a decoded plan: beams and waste, weighted per the solver
// configuration, lower is better.
func fitness(plan model.CuttingPlan, cfg model.SolverConfig) float64 {
	return float64(plan.BeamCount())*cfg.BeamWeight + plan.TotalWaste()*cfg.WasteWeight
}
