package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"corridor/config"
	"corridor/internal/candidate"
	"corridor/internal/coverage"
	logs "corridor/internal/infra/log"
	"corridor/internal/network"
	"corridor/internal/util"

	"github.com/pkg/errors"
)

// setup loads configuration and builds the logger shared by all subcommands.
func setup(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.New(configPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}

	logger, err := logs.New(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create logger")
	}

	return cfg, logger, nil
}

// buildNetwork loads and filters the segments and assembles the graph.
func buildNetwork(cfg *config.Config, logger *slog.Logger) ([]network.Segment, *network.Graph, error) {
	loader := network.NewCSVLoader(cfg.Network.DataPath, cfg.Network.Projection)
	segments, err := loader.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load segments")
	}

	rule := network.DefaultFilterRule()
	if cfg.Network.MinLanes > 0 {
		rule.MinLanes = cfg.Network.MinLanes
	}
	if len(cfg.Network.Classes) > 0 {
		rule.Classes = cfg.Network.Classes
	}

	graph, err := network.Build(segments, rule, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build road network")
	}

	return segments, graph, nil
}

// generateCandidates runs the seeded all-pairs shortest-path stage and
// builds the incidence matrix over the full pool.
func generateCandidates(ctx context.Context, cfg *config.Config, graph *network.Graph, logger *slog.Logger) ([]candidate.Path, *coverage.Matrix, error) {
	start := time.Now()

	paths, err := candidate.Generate(ctx, graph, candidate.Config{
		SampleSize: cfg.Candidates.SampleSize,
		Seed:       cfg.Candidates.Seed,
		Workers:    cfg.Candidates.Workers,
	}, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate candidates")
	}

	matrix := coverage.NewMatrix(graph, paths)

	logger.Info("candidate pool ready",
		"paths", len(paths),
		"edges", matrix.NumEdges(),
		"elapsed", util.FormatDuration(time.Since(start)),
	)

	return paths, matrix, nil
}

// newSolver picks the strategy for this run. Exact enforces
// edge-disjointness, greedy does not.
func newSolver(mode string, timeLimit time.Duration) (coverage.Solver, error) {
	switch mode {
	case "exact":
		return coverage.NewExactSolver(timeLimit), nil
	case "greedy":
		return coverage.NewGreedySolver(), nil
	default:
		return nil, errors.Errorf("unknown solver mode: %s", mode)
	}
}

// inputChecksum hashes the primary input file for run provenance.
func inputChecksum(dataPath string) string {
	sum, err := util.CalculateFileChecksum(filepath.Join(dataPath, "segments.csv"))
	if err != nil {
		return ""
	}

	return sum
}
