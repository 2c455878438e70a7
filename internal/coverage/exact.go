package coverage

import (
	"context"
	"sort"
	"time"
)

// DefaultTimeLimit bounds the exact search. Hitting it is not a failure:
// the best incumbent found so far is returned with TimedOut set.
const DefaultTimeLimit = 120 * time.Second

const boundEps = 1e-9

// ExactSolver solves the 0/1 selection program exactly:
//
//	maximize   Σ value(p)·x_p
//	subject to Σ x_p ≤ budget
//	           Σ_{p using e} x_p ≤ 1   for every conflict edge e
//
// via depth-first branch and bound with deterministic branching order
// (descending value, index tiebreak) and an admissible upper bound from the
// top remaining values. Deadline checks are sparse to keep the hot loop lean.
type ExactSolver struct {
	TimeLimit time.Duration
}

// NewExactSolver returns an exact solver with the given time limit,
// DefaultTimeLimit when zero.
func NewExactSolver(timeLimit time.Duration) *ExactSolver {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	return &ExactSolver{TimeLimit: timeLimit}
}

// Name identifies the strategy in logs and sweep output.
func (s *ExactSolver) Name() string { return "exact" }

// bnbState holds all search data for one Select call.
type bnbState struct {
	subset Subset
	metric Metric
	budget int

	order  []int     // view positions, descending value
	values []float64 // aligned with order
	prefix []float64 // prefix[i] = sum of values[0:i]

	conflicts [][]int // per ordered position: its conflict edges
	usedEdge  map[int]bool

	path      []int // current ordered positions on the search path
	bestPath  []int
	bestValue float64

	deadline time.Time
	steps    int
	timedOut bool
}

// Select runs the branch-and-bound search. An empty subset yields an empty
// selection with zero coverage.
func (s *ExactSolver) Select(ctx context.Context, subset Subset, budget int, metric Metric) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return Selection{}, err
	}
	if subset.Len() == 0 || budget <= 0 {
		return finishSelection(subset, nil, metric, false), nil
	}

	state := newBnbState(subset, budget, metric, s.TimeLimit)
	state.search(0, 0)

	chosen := make([]int, len(state.bestPath))
	for i, idx := range state.bestPath {
		chosen[i] = state.order[idx]
	}

	return finishSelection(subset, chosen, metric, state.timedOut), nil
}

func newBnbState(subset Subset, budget int, metric Metric, timeLimit time.Duration) *bnbState {
	rawValues := subset.Objective(metric)

	order := make([]int, subset.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if rawValues[order[i]] != rawValues[order[j]] {
			return rawValues[order[i]] > rawValues[order[j]]
		}

		return order[i] < order[j]
	})

	values := make([]float64, len(order))
	prefix := make([]float64, len(order)+1)
	for i, pos := range order {
		values[i] = rawValues[pos]
		prefix[i+1] = prefix[i] + values[i]
	}

	// Only conflict edges generate constraints; a position's non-conflict
	// edges can never be contested within this subset.
	conflictUsage := subset.ConflictEdges()
	perPosition := make([][]int, subset.Len())
	for edge, positions := range conflictUsage {
		for _, pos := range positions {
			perPosition[pos] = append(perPosition[pos], edge)
		}
	}

	conflicts := make([][]int, len(order))
	for i, pos := range order {
		conflicts[i] = perPosition[pos]
	}

	state := &bnbState{
		subset:    subset,
		budget:    budget,
		metric:    metric,
		order:     order,
		values:    values,
		prefix:    prefix,
		conflicts: conflicts,
		usedEdge:  make(map[int]bool),
		bestValue: -1,
		deadline:  time.Now().Add(timeLimit),
	}

	return state
}

// deadlineCheck performs a rare deadline test (every 1024 node events).
func (st *bnbState) deadlineCheck() bool {
	if st.timedOut {
		return true
	}
	st.steps++
	if st.steps&1023 != 0 {
		return false
	}
	if time.Now().After(st.deadline) {
		st.timedOut = true
	}

	return st.timedOut
}

// upperBound is the value of the current path plus the top remaining values
// that still fit in the budget, ignoring conflicts. Admissible by
// construction since values are sorted descending.
func (st *bnbState) upperBound(idx int, value float64) float64 {
	slots := st.budget - len(st.path)
	end := idx + slots
	if end > len(st.values) {
		end = len(st.values)
	}

	return value + st.prefix[end] - st.prefix[idx]
}

func (st *bnbState) search(idx int, value float64) {
	if value > st.bestValue {
		st.bestValue = value
		st.bestPath = append(st.bestPath[:0:0], st.path...)
	}

	if idx >= len(st.order) || len(st.path) >= st.budget {
		return
	}
	if st.deadlineCheck() {
		return
	}
	if st.upperBound(idx, value) <= st.bestValue+boundEps {
		return
	}

	// Include branch first: values are sorted descending, so this tightens
	// the incumbent early and strengthens pruning.
	if st.feasible(idx) {
		st.take(idx)
		st.search(idx+1, value+st.values[idx])
		st.untake(idx)
	}

	st.search(idx+1, value)
}

func (st *bnbState) feasible(idx int) bool {
	for _, edge := range st.conflicts[idx] {
		if st.usedEdge[edge] {
			return false
		}
	}

	return true
}

func (st *bnbState) take(idx int) {
	for _, edge := range st.conflicts[idx] {
		st.usedEdge[edge] = true
	}
	st.path = append(st.path, idx)
}

func (st *bnbState) untake(idx int) {
	st.path = st.path[:len(st.path)-1]
	for _, edge := range st.conflicts[idx] {
		st.usedEdge[edge] = false
	}
}
