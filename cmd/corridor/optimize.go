package main

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"corridor/internal/coverage"
	"corridor/internal/export"
	"corridor/internal/infra/storage"
	"corridor/internal/sweep"

	"github.com/pkg/errors"
)

func runOptimize(ctx context.Context, configPath string, budgetOverride int, modeOverride string) error {
	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}

	if budgetOverride > 0 {
		cfg.Solver.MaxRoutes = budgetOverride
	}
	if modeOverride != "" {
		cfg.Solver.Mode = modeOverride
	}

	segments, graph, err := buildNetwork(cfg, logger)
	if err != nil {
		return err
	}

	paths, matrix, err := generateCandidates(ctx, cfg, graph, logger)
	if err != nil {
		return err
	}

	solver, err := newSolver(cfg.Solver.Mode, cfg.Solver.TimeLimit)
	if err != nil {
		return err
	}

	maxLength := cfg.Solver.MaxRouteLengthM
	if maxLength <= 0 {
		maxLength = math.Inf(1)
	}
	cols := sweep.FilterByLength(paths, cfg.Solver.MinRouteLengthM, maxLength)
	subset := matrix.Subset(cols)

	selection, err := solver.Select(ctx, subset, cfg.Solver.MaxRoutes, coverage.MetricPopulation)
	if err != nil {
		return errors.Wrap(err, "route selection failed")
	}

	logger.Info("routes selected",
		"solver", solver.Name(),
		"candidates", subset.Len(),
		"selected", len(selection.Candidates),
		"coverage_pct", selection.Coverage*100,
		"timed_out", selection.TimedOut,
	)

	exporter := export.NewExporter(cfg.Export.Waypoints, logger)
	routes, skipped := exporter.BuildRoutes(graph, paths, selection)

	if err := os.MkdirAll(cfg.Export.OutputPath, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	routesPath := filepath.Join(cfg.Export.OutputPath, "routes.csv")
	if err := export.WriteRoutesCSV(routesPath, routes); err != nil {
		return err
	}

	metadata := export.NewRunMetadata(solver.Name())
	metadata.Input = export.InputInfo{
		DataDir:  cfg.Network.DataPath,
		SHA256:   inputChecksum(cfg.Network.DataPath),
		Segments: len(segments),
		Edges:    graph.NumEdges(),
	}
	metadata.Parameters = export.Parameters{
		Seed:       cfg.Candidates.Seed,
		SampleSize: cfg.Candidates.SampleSize,
		MaxRoutes:  cfg.Solver.MaxRoutes,
		MinLengthM: cfg.Solver.MinRouteLengthM,
		MaxLengthM: cfg.Solver.MaxRouteLengthM,
		Waypoints:  cfg.Export.Waypoints,
		TimeLimit:  cfg.Solver.TimeLimit.String(),
	}
	metadata.Output = export.OutputInfo{
		Routes:            len(routes),
		SkippedCandidates: skipped,
		Coverage:          selection.Coverage,
		TimedOut:          selection.TimedOut,
	}

	metadataPath := filepath.Join(cfg.Export.OutputPath, "metadata.json")
	if err := metadata.Write(metadataPath); err != nil {
		return err
	}

	uploader := storage.NewUploader(cfg.Export.BucketURL, logger)
	if uploader.Enabled() {
		if err := uploader.UploadFiles(ctx, routesPath, metadataPath); err != nil {
			return errors.Wrap(err, "output upload failed")
		}
	}

	logger.Info("optimize run complete",
		"run_id", metadata.RunID,
		"routes", len(routes),
		"skipped", len(skipped),
		"output", cfg.Export.OutputPath,
	)

	return nil
}
