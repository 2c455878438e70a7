package main

import (
	"context"
	"os"
	"path/filepath"

	"corridor/internal/export"
	"corridor/internal/infra/storage"
	"corridor/internal/sweep"

	"github.com/pkg/errors"
)

func runSweep(ctx context.Context, configPath string, modeOverride string) error {
	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}

	if modeOverride != "" {
		cfg.Solver.Mode = modeOverride
	}
	if len(cfg.Sweep.Budgets) == 0 || len(cfg.Sweep.MaxLengthsM) == 0 {
		return errors.New("sweep requires budgets and maxLengthsM in config")
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

	grid := sweep.Grid{
		Budgets:    cfg.Sweep.Budgets,
		MaxLengths: cfg.Sweep.MaxLengthsM,
		MinLength:  cfg.Sweep.MinLengthM,
		Workers:    cfg.Sweep.Workers,
	}

	cells, err := sweep.Run(ctx, matrix, paths, grid, solver, logger)
	if err != nil {
		return errors.Wrap(err, "parameter sweep failed")
	}

	var infeasible int
	for _, cell := range cells {
		if cell.Infeasible() {
			infeasible++
		}
	}

	if err := os.MkdirAll(cfg.Export.OutputPath, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	sweepPath := filepath.Join(cfg.Export.OutputPath, "sweep.csv")
	if err := export.WriteSweepCSV(sweepPath, cells); err != nil {
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
		MinLengthM: cfg.Sweep.MinLengthM,
		TimeLimit:  cfg.Solver.TimeLimit.String(),
	}
	metadata.Output = export.OutputInfo{
		SweepCells: len(cells),
	}

	metadataPath := filepath.Join(cfg.Export.OutputPath, "sweep_metadata.json")
	if err := metadata.Write(metadataPath); err != nil {
		return err
	}

	uploader := storage.NewUploader(cfg.Export.BucketURL, logger)
	if uploader.Enabled() {
		if err := uploader.UploadFiles(ctx, sweepPath, metadataPath); err != nil {
			return errors.Wrap(err, "output upload failed")
		}
	}

	logger.Info("sweep run complete",
		"run_id", metadata.RunID,
		"cells", len(cells),
		"infeasible_cells", infeasible,
		"output", sweepPath,
	)

	return nil
}
