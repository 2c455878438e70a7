package coverage

import (
	"context"
	"testing"

	"corridor/internal/candidate"
	"corridor/internal/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedySolver_WorkedExample(t *testing.T) {
	_, _, matrix := squareFixture(t)
	subset := matrix.FullSubset()
	solver := NewGreedySolver()

	selection, err := solver.Select(context.Background(), subset, 1, MetricPopulation)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, selection.Candidates)
	assert.InDelta(t, 80.0/130.0, selection.Coverage, 1e-9)

	// The remaining candidate adds only a zero-weight edge, so a larger
	// budget does not change the pick.
	selection, err = solver.Select(context.Background(), subset, 2, MetricPopulation)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, selection.Candidates)
}

func TestGreedySolver_AllowsEdgeReuse(t *testing.T) {
	// Same square as the worked example but with a nonzero weight on the
	// first edge. Greedy takes both overlapping candidates; the exact solver
	// must reject the pair on the shared edge.
	graph, err := network.Build([]network.Segment{
		seg(1, 1, 2, 100, 10),
		seg(2, 2, 3, 100, 50),
		seg(3, 3, 4, 100, 30),
		seg(4, 4, 1, 100, 50),
	}, network.DefaultFilterRule(), nil)
	require.NoError(t, err)

	paths := []candidate.Path{
		{Origin: 1, Dest: 3, Edges: []int{0, 1}, Length: 200, Weight: 60},
		{Origin: 2, Dest: 4, Edges: []int{1, 2}, Length: 200, Weight: 80},
	}
	subset := NewMatrix(graph, paths).FullSubset()

	greedy, err := NewGreedySolver().Select(context.Background(), subset, 2, MetricPopulation)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, greedy.Candidates)
	assert.InDelta(t, 90.0/140.0, greedy.Coverage, 1e-9)

	exact, err := NewExactSolver(0).Select(context.Background(), subset, 2, MetricPopulation)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, exact.Candidates)
	assert.InDelta(t, 80.0/140.0, exact.Coverage, 1e-9)
}

func TestGreedySolver_RespectsBudget(t *testing.T) {
	_, _, matrix := chainFixture(t, 6)
	subset := matrix.FullSubset()
	solver := NewGreedySolver()

	for budget := 1; budget <= 4; budget++ {
		selection, err := solver.Select(context.Background(), subset, budget, MetricPopulation)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(selection.Candidates), budget)
	}
}

func TestGreedySolver_StopsOnZeroGain(t *testing.T) {
	_, _, matrix := chainFixture(t, 3)
	subset := matrix.FullSubset()

	// Budget exceeds the pool; once every edge is covered further picks add
	// nothing and the loop stops early.
	selection, err := NewGreedySolver().Select(context.Background(), subset, 10, MetricPopulation)
	require.NoError(t, err)
	assert.Less(t, len(selection.Candidates), subset.Len())
	assert.InDelta(t, 1.0, selection.Coverage, 1e-9)
}

func TestGreedySolver_EmptySubset(t *testing.T) {
	_, _, matrix := squareFixture(t)

	selection, err := NewGreedySolver().Select(context.Background(), matrix.Subset(nil), 3, MetricPopulation)
	require.NoError(t, err)
	assert.Empty(t, selection.Candidates)
	assert.Zero(t, selection.Coverage)
}

func TestGreedySolver_ContextCanceled(t *testing.T) {
	_, _, matrix := squareFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGreedySolver().Select(ctx, matrix.FullSubset(), 1, MetricPopulation)
	assert.Error(t, err)
}
