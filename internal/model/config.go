package model

import "fmt"

// SolverConfig holds the genetic algorithm parameters.
//
// BeamWeight and WasteWeight shape the fitness function
// (beams*BeamWeight + waste*WasteWeight, lower is better). Weighting beams
// heavily biases toward "fewest beams" semantics; weighting waste biases
// toward "least offcut". Both zero is rejected: the score would be constant.
type SolverConfig struct {
	PopulationSize int     `json:"population_size" yaml:"population_size"`
	MaxGenerations int     `json:"max_generations" yaml:"max_generations"`
	StallLimit     int     `json:"stall_limit" yaml:"stall_limit"` // 0 disables stall detection
	TournamentSize int     `json:"tournament_size" yaml:"tournament_size"`
	CrossoverRate  float64 `json:"crossover_rate" yaml:"crossover_rate"`
	MutationRate   float64 `json:"mutation_rate" yaml:"mutation_rate"`
	BeamWeight     float64 `json:"beam_weight" yaml:"beam_weight"`
	WasteWeight    float64 `json:"waste_weight" yaml:"waste_weight"`
	Seed           int64   `json:"seed" yaml:"seed"`
	Workers        int     `json:"workers" yaml:"workers"` // 0 means one per CPU
}

// DefaultSolverConfig returns sensible default parameters.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		PopulationSize: 70,
		MaxGenerations: 200,
		StallLimit:     40,
		TournamentSize: 3,
		CrossoverRate:  0.9,
		MutationRate:   0.2,
		BeamWeight:     1,
		WasteWeight:    1,
		Seed:           42,
		Workers:        0,
	}
}

// Validate checks the configuration for values the solver cannot run with.
func (c SolverConfig) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.MaxGenerations < 1 {
		return fmt.Errorf("max generations must be at least 1, got %d", c.MaxGenerations)
	}
	if c.StallLimit < 0 {
		return fmt.Errorf("stall limit must not be negative, got %d", c.StallLimit)
	}
	if c.TournamentSize < 1 || c.TournamentSize > c.PopulationSize {
		return fmt.Errorf("tournament size must be in [1, population size], got %d", c.TournamentSize)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be in [0, 1], got %v", c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0, 1], got %v", c.MutationRate)
	}
	if c.BeamWeight < 0 || c.WasteWeight < 0 {
		return fmt.Errorf("fitness weights must not be negative, got beam=%v waste=%v", c.BeamWeight, c.WasteWeight)
	}
	if c.BeamWeight == 0 && c.WasteWeight == 0 {
		return fmt.Errorf("at least one fitness weight must be positive")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
