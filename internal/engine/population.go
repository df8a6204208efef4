package engine

// Genetic operators over one generation. All randomness flows through the
// solver's single seeded generator, and every operator yields a valid
// permutation by construction: no instance is ever created or dropped.

// tournamentSelect samples cfg.TournamentSize members uniformly at random
// (with replacement across tournaments) and returns the order of the one
// with the lowest fitness. The returned slice is shared with the population;
// callers must clone before modifying.
func (s *Solver) tournamentSelect(pop []genotype) []int {
	best := s.rng.Intn(len(pop))
	for i := 1; i < s.cfg.TournamentSize; i++ {
		cand := s.rng.Intn(len(pop))
		if pop[cand].fitness < pop[best].fitness {
			best = cand
		}
	}
	return pop[best].order
}

// cutPointCrossover builds a child from two parent permutations: the child
// takes the prefix of parent A up to a random cut point, then fills the
// remaining positions with parent B's instances in B's relative order,
// skipping instances already placed. The result is always a permutation of
// the same index set.
func (s *Solver) cutPointCrossover(a, b []int) []int {
	n := len(a)
	if n < 2 {
		return cloneOrder(a)
	}

	cut := 1 + s.rng.Intn(n-1)
	child := make([]int, 0, n)
	child = append(child, a[:cut]...)

	placed := make([]bool, n)
	for _, idx := range child {
		placed[idx] = true
	}
	for _, idx := range b {
		if !placed[idx] {
			child = append(child, idx)
		}
	}
	return child
}

// swapMutate exchanges two randomly chosen positions in place.
func (s *Solver) swapMutate(order []int) {
	n := len(order)
	if n < 2 {
		return
	}
	i := s.rng.Intn(n)
	j := s.rng.Intn(n)
	order[i], order[j] = order[j], order[i]
}

// bestIndex returns the index of the lowest-fitness genotype. Ties keep the
// earliest member, so repeated evaluation of an unchanged population is
// reproducible.
func bestIndex(pop []genotype) int {
	best := 0
	for i := 1; i < len(pop); i++ {
		if pop[i].fitness < pop[best].fitness {
			best = i
		}
	}
	return best
}

// nextGeneration produces a full successor population: the single best
// genotype survives unmodified (elitism), the rest are offspring from
// tournament parents with crossover and swap mutation applied at the
// configured rates.
func (s *Solver) nextGeneration(pop []genotype) []genotype {
	next := make([]genotype, 0, len(pop))

	elite := bestIndex(pop)
	next = append(next, genotype{order: cloneOrder(pop[elite].order), fitness: pop[elite].fitness})

	for len(next) < len(pop) {
		p1 := s.tournamentSelect(pop)
		p2 := s.tournamentSelect(pop)

		var child []int
		if s.rng.Float64() < s.cfg.CrossoverRate {
			child = s.cutPointCrossover(p1, p2)
		} else {
			child = cloneOrder(p1)
		}

		if s.rng.Float64() < s.cfg.MutationRate {
			s.swapMutate(child)
		}

		next = append(next, genotype{order: child})
	}

	return next
}
