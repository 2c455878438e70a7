package coverage

import (
	"context"
	"sort"
)

// Selection is the outcome of one optimizer invocation.
type Selection struct {
	// Candidates holds the chosen candidate pool indexes, ascending.
	Candidates []int
	// Coverage is the fraction of the full edge set's metric value touched
	// by the chosen paths.
	Coverage float64
	// TimedOut reports that the exact search hit its time limit and the
	// selection is the best incumbent, not a proven optimum.
	TimedOut bool
}

// Solver selects up to budget candidates from a subset. The two
// implementations are not interchangeable: ExactSolver enforces
// edge-disjointness on conflict edges, GreedySolver permits edge reuse.
type Solver interface {
	Name() string
	Select(ctx context.Context, subset Subset, budget int, metric Metric) (Selection, error)
}

// finishSelection maps chosen view positions back to pool indexes and
// computes union-based coverage.
func finishSelection(subset Subset, chosen []int, metric Metric, timedOut bool) Selection {
	candidates := make([]int, len(chosen))
	for i, pos := range chosen {
		candidates[i] = subset.Candidate(pos)
	}
	sort.Ints(candidates)

	return Selection{
		Candidates: candidates,
		Coverage:   subset.Coverage(chosen, metric),
		TimedOut:   timedOut,
	}
}
