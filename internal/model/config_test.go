package model

import "testing"

func TestDefaultSolverConfigIsValid(t *testing.T) {
	if err := DefaultSolverConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestSolverConfigValidation(t *testing.T) {
	mutate := func(f func(*SolverConfig)) SolverConfig {
		cfg := DefaultSolverConfig()
		f(&cfg)
		return cfg
	}

	cases := []struct {
		name string
		cfg  SolverConfig
	}{
		{"population too small", mutate(func(c *SolverConfig) { c.PopulationSize = 1 })},
		{"no generations", mutate(func(c *SolverConfig) { c.MaxGenerations = 0 })},
		{"negative stall limit", mutate(func(c *SolverConfig) { c.StallLimit = -1 })},
		{"tournament too small", mutate(func(c *SolverConfig) { c.TournamentSize = 0 })},
		{"tournament exceeds population", mutate(func(c *SolverConfig) { c.TournamentSize = c.PopulationSize + 1 })},
		{"crossover rate above 1", mutate(func(c *SolverConfig) { c.CrossoverRate = 1.5 })},
		{"negative mutation rate", mutate(func(c *SolverConfig) { c.MutationRate = -0.1 })},
		{"negative weight", mutate(func(c *SolverConfig) { c.BeamWeight = -1 })},
		{"both weights zero", mutate(func(c *SolverConfig) { c.BeamWeight = 0; c.WasteWeight = 0 })},
		{"negative workers", mutate(func(c *SolverConfig) { c.Workers = -1 })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSolverConfigZeroStallLimitIsValid(t *testing.T) {
	cfg := DefaultSolverConfig()
	cfg.StallLimit = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("stall limit 0 disables stall detection and must validate, got %v", err)
	}
}
