package coverage

import (
	"testing"

	"corridor/internal/candidate"
	"corridor/internal/network"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(id, from, to int64, length, weight float64) network.Segment {
	return network.Segment{
		ID:     id,
		From:   from,
		To:     to,
		Lanes:  4,
		Class:  "primary",
		Length: length,
		Weight: weight,
		Geometry: orb.LineString{
			{44.50 + float64(from)*0.001, 40.18},
			{44.50 + float64(to)*0.001, 40.18},
		},
	}
}

// squareFixture is the worked selection example: four edges around a square,
// two candidates sharing the high-weight middle edge.
//
//	E1 (edge 0): weight 0    E2 (edge 1): weight 50
//	E3 (edge 2): weight 30   E4 (edge 3): weight 50
//	P1 = {E1, E2}  P2 = {E2, E3}   E2 is the conflict edge.
func squareFixture(t *testing.T) (*network.Graph, []candidate.Path, *Matrix) {
	t.Helper()

	graph, err := network.Build([]network.Segment{
		seg(1, 1, 2, 100, 0),
		seg(2, 2, 3, 100, 50),
		seg(3, 3, 4, 100, 30),
		seg(4, 4, 1, 100, 50),
	}, network.DefaultFilterRule(), nil)
	require.NoError(t, err)

	paths := []candidate.Path{
		{Origin: 1, Dest: 3, Edges: []int{0, 1}, Length: 200, Weight: 50},
		{Origin: 2, Dest: 4, Edges: []int{1, 2}, Length: 200, Weight: 80},
	}

	return graph, paths, NewMatrix(graph, paths)
}

func TestMatrix_Totals(t *testing.T) {
	_, _, matrix := squareFixture(t)

	assert.InDelta(t, 130.0, matrix.Total(MetricPopulation), 1e-9)
	assert.InDelta(t, 400.0, matrix.Total(MetricLength), 1e-9)
	assert.Equal(t, 2, matrix.NumCandidates())
	assert.Equal(t, 4, matrix.NumEdges())
}

func TestSubset_ConflictEdges(t *testing.T) {
	_, _, matrix := squareFixture(t)

	conflicts := matrix.FullSubset().ConflictEdges()
	require.Len(t, conflicts, 1)
	assert.ElementsMatch(t, []int{0, 1}, conflicts[1])

	// A singleton subset has no contested edges.
	assert.Empty(t, matrix.Subset([]int{1}).ConflictEdges())
}

func TestSubset_Objective(t *testing.T) {
	_, _, matrix := squareFixture(t)
	subset := matrix.FullSubset()

	pop := subset.Objective(MetricPopulation)
	assert.InDelta(t, 50.0, pop[0], 1e-9)
	assert.InDelta(t, 80.0, pop[1], 1e-9)

	length := subset.Objective(MetricLength)
	assert.InDelta(t, 200.0, length[0], 1e-9)
	assert.InDelta(t, 200.0, length[1], 1e-9)
}

func TestSubset_CoverageIsUnionBased(t *testing.T) {
	_, _, matrix := squareFixture(t)
	subset := matrix.FullSubset()

	// Both candidates share edge 1; its weight counts once.
	got := subset.Coverage([]int{0, 1}, MetricPopulation)
	assert.InDelta(t, 80.0/130.0, got, 1e-9)

	assert.InDelta(t, 80.0/130.0, subset.Coverage([]int{1}, MetricPopulation), 1e-9)
	assert.Zero(t, subset.Coverage(nil, MetricPopulation))
}

func TestSubset_CandidateMapping(t *testing.T) {
	_, _, matrix := squareFixture(t)

	subset := matrix.Subset([]int{1})
	assert.Equal(t, 1, subset.Len())
	assert.Equal(t, 1, subset.Candidate(0))
	assert.Equal(t, []int{1, 2}, subset.Edges(0))
}
