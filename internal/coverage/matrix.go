// Package coverage holds the edge-by-candidate incidence matrix and the two
// route selection strategies: an exact edge-disjoint integer program and a
// greedy marginal-gain heuristic. The strategies share an interface but give
// materially different guarantees and are deliberately not unified.
package coverage

import (
	"corridor/internal/candidate"
	"corridor/internal/network"
)

// Metric selects which per-edge quantity a selection optimizes and is
// measured against.
type Metric int

const (
	// MetricPopulation optimizes the population weight attributed to edges.
	MetricPopulation Metric = iota
	// MetricLength optimizes raw covered road length.
	MetricLength
)

func (m Metric) String() string {
	if m == MetricLength {
		return "length"
	}

	return "population"
}

// Matrix is the sparse edge-by-candidate incidence matrix. It is built once
// over the full candidate pool and never mutated; sweep cells and optimizer
// calls operate on column-subset views.
type Matrix struct {
	cols       [][]int // candidate index -> dense edge indexes on its path
	edgeWeight []float64
	edgeLength []float64

	totalWeight float64
	totalLength float64
}

// NewMatrix builds the incidence matrix for the full candidate pool.
func NewMatrix(g *network.Graph, paths []candidate.Path) *Matrix {
	m := &Matrix{
		cols:       make([][]int, len(paths)),
		edgeWeight: make([]float64, g.NumEdges()),
		edgeLength: make([]float64, g.NumEdges()),
	}

	for _, edge := range g.Edges() {
		m.edgeWeight[edge.Index] = edge.Weight
		m.edgeLength[edge.Index] = edge.Length
		m.totalWeight += edge.Weight
		m.totalLength += edge.Length
	}

	for col, path := range paths {
		edges := make([]int, len(path.Edges))
		copy(edges, path.Edges)
		m.cols[col] = edges
	}

	return m
}

// NumCandidates returns the number of columns in the full matrix.
func (m *Matrix) NumCandidates() int {
	return len(m.cols)
}

// NumEdges returns the number of rows.
func (m *Matrix) NumEdges() int {
	return len(m.edgeWeight)
}

// Total returns the denominator for coverage under the given metric:
// the summed quantity over the full edge set.
func (m *Matrix) Total(metric Metric) float64 {
	if metric == MetricLength {
		return m.totalLength
	}

	return m.totalWeight
}

func (m *Matrix) edgeValue(edge int, metric Metric) float64 {
	if metric == MetricLength {
		return m.edgeLength[edge]
	}

	return m.edgeWeight[edge]
}

// Subset returns a column-sliced view over the given candidate indexes.
// The view shares the underlying sparse structure, nothing is rebuilt.
func (m *Matrix) Subset(cols []int) Subset {
	return Subset{matrix: m, cols: cols}
}

// FullSubset returns a view over every candidate column.
func (m *Matrix) FullSubset() Subset {
	cols := make([]int, len(m.cols))
	for i := range cols {
		cols[i] = i
	}

	return m.Subset(cols)
}

// Subset is a cheap column view over the incidence matrix. Positions are
// indexes into the view; Candidate maps them back to pool indexes.
type Subset struct {
	matrix *Matrix
	cols   []int
}

// Len returns the number of candidates in the view.
func (s Subset) Len() int {
	return len(s.cols)
}

// Candidate maps a view position to its candidate pool index.
func (s Subset) Candidate(pos int) int {
	return s.cols[pos]
}

// Edges returns the edge set of the candidate at the given view position.
// Callers must treat the slice as read-only.
func (s Subset) Edges(pos int) []int {
	return s.matrix.cols[s.cols[pos]]
}

// Objective returns the per-position aggregate value under the metric,
// recomputed from the edge sets.
func (s Subset) Objective(metric Metric) []float64 {
	values := make([]float64, len(s.cols))
	for pos := range s.cols {
		var sum float64
		for _, edge := range s.Edges(pos) {
			sum += s.matrix.edgeValue(edge, metric)
		}
		values[pos] = sum
	}

	return values
}

// ConflictEdges returns, for every edge used by two or more candidates in
// this subset, the view positions using it. Edges used by exactly one
// candidate are unconstrained and omitted.
func (s Subset) ConflictEdges() map[int][]int {
	usage := make(map[int][]int)
	for pos := range s.cols {
		for _, edge := range s.Edges(pos) {
			usage[edge] = append(usage[edge], pos)
		}
	}

	for edge, positions := range usage {
		if len(positions) < 2 {
			delete(usage, edge)
		}
	}

	return usage
}

// Coverage measures the selection as the summed metric value over the union
// of edges touched by the chosen positions, divided by the total over the
// full edge set. Union semantics keep the measurement correct even when the
// disjointness constraint is absent and edges are reused.
func (s Subset) Coverage(chosen []int, metric Metric) float64 {
	total := s.matrix.Total(metric)
	if total <= 0 {
		return 0
	}

	touched := make(map[int]bool)
	var covered float64
	for _, pos := range chosen {
		for _, edge := range s.Edges(pos) {
			if !touched[edge] {
				touched[edge] = true
				covered += s.matrix.edgeValue(edge, metric)
			}
		}
	}

	return covered / total
}
