package engine

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/piwi3910/beamcut/internal/model"
)

// Result is the outcome of one solver run: the best-ever genotype decoded
// into a cutting plan, plus run statistics.
type Result struct {
	Plan        model.CuttingPlan
	Fitness     float64
	Generations int
	// Cancelled is set when the run stopped at a generation boundary
	// because the caller's context was done. The plan is still the valid
	// best-ever solution found up to that point.
	Cancelled bool
}

// Solver runs the genetic algorithm for one demand. It owns the population
// for the duration of a run and a single seeded random generator, so a
// given seed reproduces a run end-to-end.
type Solver struct {
	cfg    model.SolverConfig
	demand *model.Demand
	rng    *rand.Rand
}

// New creates a solver after validating the configuration.
func New(cfg model.SolverConfig, demand *model.Demand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		cfg:    cfg,
		demand: demand,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Solve runs generations until the hard generation cap, the stall limit, or
// context cancellation, whichever comes first, and returns the best-ever
// solution. The generation cap guarantees bounded runtime even with stall
// detection disabled. Cancellation is not an error: the best-ever plan found
// so far is returned with Cancelled set.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	n := s.demand.InstanceCount()

	pop := make([]genotype, s.cfg.PopulationSize)
	for i := range pop {
		pop[i] = randomGenotype(n, s.rng)
	}

	var bestOrder []int
	bestFitness := math.Inf(1)
	stall := 0
	generations := 0
	cancelled := false

	for gen := 0; gen < s.cfg.MaxGenerations; gen++ {
		s.evaluate(pop)
		generations = gen + 1

		// Best-ever is kept as an owned deep copy so it survives this
		// generation's disposal.
		if i := bestIndex(pop); pop[i].fitness < bestFitness {
			bestFitness = pop[i].fitness
			bestOrder = cloneOrder(pop[i].order)
			stall = 0
		} else {
			stall++
		}

		if s.cfg.StallLimit > 0 && stall >= s.cfg.StallLimit {
			break
		}
		if gen == s.cfg.MaxGenerations-1 {
			break
		}

		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			break
		}

		pop = s.nextGeneration(pop)
	}

	return &Result{
		Plan:        decode(bestOrder, s.demand),
		Fitness:     bestFitness,
		Generations: generations,
		Cancelled:   cancelled,
	}, nil
}

// evaluate decodes and scores every genotype of the generation. Decode and
// fitness are pure functions over immutable inputs, so the population is
// scored by parallel workers; everything that touches the random generator
// stays single-threaded in the evolution step.
func (s *Solver) evaluate(pop []genotype) {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pop) {
		workers = len(pop)
	}
	if workers <= 1 {
		for i := range pop {
			pop[i].fitness = fitness(decode(pop[i].order, s.demand), s.cfg)
		}
		return
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(pop); i += workers {
				pop[i].fitness = fitness(decode(pop[i].order, s.demand), s.cfg)
			}
		}(w)
	}
	wg.Wait()
}
