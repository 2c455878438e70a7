package coverage

import (
	"context"
)

// GreedySolver is the fast approximate baseline: it repeatedly picks the
// candidate with the largest marginal newly-covered value until the budget
// is spent or no candidate adds anything. It enforces no disjointness, so
// selected routes may reuse edges; reused edges count once toward coverage.
// Ties break toward the lower view position, deterministic but
// order-dependent.
type GreedySolver struct{}

// NewGreedySolver returns the greedy marginal-gain heuristic.
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{}
}

// Name identifies the strategy in logs and sweep output.
func (s *GreedySolver) Name() string { return "greedy" }

// Select runs the marginal-gain loop.
func (s *GreedySolver) Select(ctx context.Context, subset Subset, budget int, metric Metric) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return Selection{}, err
	}

	covered := make(map[int]bool)
	taken := make([]bool, subset.Len())
	var chosen []int

	for len(chosen) < budget {
		bestPos := -1
		bestGain := 0.0

		for pos := 0; pos < subset.Len(); pos++ {
			if taken[pos] {
				continue
			}

			var gain float64
			for _, edge := range subset.Edges(pos) {
				if !covered[edge] {
					gain += subset.matrix.edgeValue(edge, metric)
				}
			}

			if gain > bestGain {
				bestGain = gain
				bestPos = pos
			}
		}

		// No remaining candidate covers anything new.
		if bestPos < 0 {
			break
		}

		taken[bestPos] = true
		chosen = append(chosen, bestPos)
		for _, edge := range subset.Edges(bestPos) {
			covered[edge] = true
		}
	}

	return finishSelection(subset, chosen, metric, false), nil
}
