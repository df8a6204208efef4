package engine

import (
	"math/rand"
	"testing"

	"github.com/piwi3910/beamcut/internal/model"
)

func makeTestSolver(t *testing.T, seed int64) *Solver {
	t.Helper()
	demand := makeTestDemand(t, 100, []model.RequiredPart{
		{Length: 40, Quantity: 4},
		{Length: 25, Quantity: 4},
		{Length: 15, Quantity: 4},
	})
	cfg := makeTestConfig()
	cfg.Seed = seed
	solver, err := New(cfg, demand)
	if err != nil {
		t.Fatalf("solver setup failed: %v", err)
	}
	return solver
}

func TestCutPointCrossoverYieldsPermutation(t *testing.T) {
	s := makeTestSolver(t, 5)
	rng := rand.New(rand.NewSource(11))
	n := s.demand.InstanceCount()

	for trial := 0; trial < 200; trial++ {
		a := rng.Perm(n)
		b := rng.Perm(n)
		child := s.cutPointCrossover(a, b)
		if !isPermutation(child, n) {
			t.Fatalf("trial %d: child is not a permutation: %v", trial, child)
		}
	}
}

func TestCutPointCrossoverKeepsPrefixOrder(t *testing.T) {
	s := makeTestSolver(t, 5)
	a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	b := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	child := s.cutPointCrossover(a, b)

	// Some prefix of the child must match parent A, and the remainder must
	// follow parent B's relative order.
	cut := 0
	for cut < len(child) && child[cut] == a[cut] {
		cut++
	}
	if cut == 0 {
		t.Fatal("child shares no prefix with parent A")
	}
	last := -1
	for _, idx := range child[cut:] {
		pos := len(b) - 1 - idx // position of idx within b
		if pos < last {
			t.Fatalf("tail does not follow parent B's order: %v", child)
		}
		last = pos
	}
}

func TestSwapMutateYieldsPermutation(t *testing.T) {
	s := makeTestSolver(t, 8)
	n := s.demand.InstanceCount()
	order := rand.New(rand.NewSource(2)).Perm(n)

	for trial := 0; trial < 100; trial++ {
		s.swapMutate(order)
		if !isPermutation(order, n) {
			t.Fatalf("trial %d: mutated order is not a permutation: %v", trial, order)
		}
	}
}

func TestSwapMutateHandlesTinyGenomes(t *testing.T) {
	s := makeTestSolver(t, 8)

	single := []int{0}
	s.swapMutate(single)
	if single[0] != 0 {
		t.Error("single-element order must be untouched")
	}

	var empty []int
	s.swapMutate(empty)
}

func TestTournamentSelectPrefersLowerFitness(t *testing.T) {
	s := makeTestSolver(t, 3)
	s.cfg.TournamentSize = 2

	// Two members, the second strictly better. With two samples per
	// tournament the better one wins unless both samples hit the worse
	// member, so it must dominate over many draws.
	pop := []genotype{
		{order: []int{0, 1, 2}, fitness: 10},
		{order: []int{2, 1, 0}, fitness: 1},
	}

	bestWins := 0
	for trial := 0; trial < 64; trial++ {
		winner := s.tournamentSelect(pop)
		if winner[0] == 2 {
			bestWins++
		}
	}
	if bestWins <= 32 {
		t.Errorf("lowest-fitness member won only %d of 64 tournaments", bestWins)
	}
}

func TestBestIndexTiesKeepEarliest(t *testing.T) {
	pop := []genotype{
		{fitness: 5},
		{fitness: 3},
		{fitness: 3},
		{fitness: 7},
	}
	if got := bestIndex(pop); got != 1 {
		t.Errorf("expected index 1 on a tie, got %d", got)
	}
}

func TestNextGenerationKeepsElite(t *testing.T) {
	s := makeTestSolver(t, 13)
	n := s.demand.InstanceCount()

	pop := make([]genotype, s.cfg.PopulationSize)
	for i := range pop {
		pop[i] = randomGenotype(n, s.rng)
	}
	s.evaluate(pop)
	elite := pop[bestIndex(pop)]

	next := s.nextGeneration(pop)

	if len(next) != len(pop) {
		t.Fatalf("population size changed: %d -> %d", len(pop), len(next))
	}
	for i := range next[0].order {
		if next[0].order[i] != elite.order[i] {
			t.Fatal("elite genotype must survive unmodified at index 0")
		}
	}
	// The elite must be a copy, not a view into the old population.
	next[0].order[0], next[0].order[1] = next[0].order[1], next[0].order[0]
	same := true
	for i := range elite.order {
		if next[0].order[i] != elite.order[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("elite order aliases the previous generation")
	}
}

func TestBestFitnessNeverRisesAcrossGenerations(t *testing.T) {
	s := makeTestSolver(t, 17)
	n := s.demand.InstanceCount()

	pop := make([]genotype, s.cfg.PopulationSize)
	for i := range pop {
		pop[i] = randomGenotype(n, s.rng)
	}

	// Elitism carries the best genotype into every successor population,
	// so the per-generation best fitness is non-increasing.
	s.evaluate(pop)
	best := pop[bestIndex(pop)].fitness

	for gen := 0; gen < 80; gen++ {
		pop = s.nextGeneration(pop)
		s.evaluate(pop)
		current := pop[bestIndex(pop)].fitness
		if current > best {
			t.Fatalf("generation %d: best fitness rose from %v to %v", gen, best, current)
		}
		best = current
	}
}

func TestGenerationsPreservePermutations(t *testing.T) {
	s := makeTestSolver(t, 21)
	n := s.demand.InstanceCount()

	pop := make([]genotype, s.cfg.PopulationSize)
	for i := range pop {
		pop[i] = randomGenotype(n, s.rng)
	}

	for gen := 0; gen < 50; gen++ {
		s.evaluate(pop)
		pop = s.nextGeneration(pop)
		for i, g := range pop {
			if !isPermutation(g.order, n) {
				t.Fatalf("generation %d, member %d: invalid permutation %v", gen, i, g.order)
			}
		}
	}
}
