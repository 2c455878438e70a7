// Package sweep evaluates the optimizer over a grid of (route budget,
// max-length cutoff) cells. Cells are independent batch tasks: each reads
// only the frozen incidence matrix and candidate pool and writes its own
// result slot, so they dispatch to a worker pool with no locking beyond the
// final fan-in.
package sweep

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"corridor/internal/candidate"
	"corridor/internal/coverage"

	"github.com/pkg/errors"
)

// Grid describes the parameter grid and the length floor applied to every cell.
type Grid struct {
	Budgets    []int     // route-count budgets
	MaxLengths []float64 // max-path-length cutoffs in meters
	MinLength  float64   // path length floor in meters
	Workers    int       // concurrent cell workers
}

// Cell is one evaluated grid cell. Coverage values are NaN when the cell's
// filtered candidate set was empty; such cells are recorded, not dropped.
type Cell struct {
	MaxLength          float64
	Budget             int
	PopulationCoverage float64
	LengthCoverage     float64
	TimedOut           bool
}

// Infeasible reports whether the cell had no candidates to select from.
func (c Cell) Infeasible() bool {
	return math.IsNaN(c.PopulationCoverage)
}

// Run evaluates every grid cell with the given solver, once per metric.
// Cell ordering in the result is row-major (max length, then budget).
func Run(ctx context.Context, matrix *coverage.Matrix, paths []candidate.Path, grid Grid, solver coverage.Solver, logger *slog.Logger) ([]Cell, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if grid.Workers <= 0 {
		grid.Workers = 4
	}

	cells := make([]Cell, 0, len(grid.MaxLengths)*len(grid.Budgets))
	for _, maxLength := range grid.MaxLengths {
		for _, budget := range grid.Budgets {
			cells = append(cells, Cell{MaxLength: maxLength, Budget: budget})
		}
	}

	jobCh := make(chan int, len(cells))
	errOnce := sync.Once{}
	var firstErr error

	var waitGroup sync.WaitGroup
	workerCount := min(grid.Workers, len(cells))
	for workerIdx := 0; workerIdx < workerCount; workerIdx++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for cellIdx := range jobCh {
				if ctx.Err() != nil {
					return
				}
				if err := evaluateCell(ctx, matrix, paths, grid, solver, &cells[cellIdx], logger); err != nil {
					errOnce.Do(func() { firstErr = err })

					return
				}
			}
		}()
	}

	for cellIdx := range cells {
		jobCh <- cellIdx
	}
	close(jobCh)
	waitGroup.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "sweep canceled")
	}
	if firstErr != nil {
		return nil, firstErr
	}

	logger.Info("parameter sweep finished",
		"cells", len(cells),
		"solver", solver.Name(),
	)

	return cells, nil
}

// evaluateCell filters the pool to the cell's length window and runs the
// solver under both metrics. An empty window yields NaN coverage.
func evaluateCell(ctx context.Context, matrix *coverage.Matrix, paths []candidate.Path, grid Grid, solver coverage.Solver, cell *Cell, logger *slog.Logger) error {
	cols := filterByLength(paths, grid.MinLength, cell.MaxLength)
	if len(cols) == 0 {
		cell.PopulationCoverage = math.NaN()
		cell.LengthCoverage = math.NaN()
		logger.Debug("sweep cell has no candidates",
			"max_length_m", cell.MaxLength,
			"budget", cell.Budget,
		)

		return nil
	}

	subset := matrix.Subset(cols)

	popSelection, err := solver.Select(ctx, subset, cell.Budget, coverage.MetricPopulation)
	if err != nil {
		return errors.Wrapf(err, "cell max_length=%.0f budget=%d population", cell.MaxLength, cell.Budget)
	}

	lenSelection, err := solver.Select(ctx, subset, cell.Budget, coverage.MetricLength)
	if err != nil {
		return errors.Wrapf(err, "cell max_length=%.0f budget=%d length", cell.MaxLength, cell.Budget)
	}

	cell.PopulationCoverage = popSelection.Coverage
	cell.LengthCoverage = lenSelection.Coverage
	cell.TimedOut = popSelection.TimedOut || lenSelection.TimedOut

	return nil
}

// FilterByLength returns the candidate pool indexes whose aggregate length
// lies in [minLength, maxLength].
func FilterByLength(paths []candidate.Path, minLength, maxLength float64) []int {
	return filterByLength(paths, minLength, maxLength)
}

func filterByLength(paths []candidate.Path, minLength, maxLength float64) []int {
	var cols []int
	for idx, path := range paths {
		if path.Length >= minLength && path.Length <= maxLength {
			cols = append(cols, idx)
		}
	}

	return cols
}
