package main

import (
	"fmt"
	"os"
	"path/filepath"

	"corridor/internal/network"
	"corridor/internal/util"

	"github.com/pkg/errors"
)

func runValidate(dir string) error {
	fmt.Printf("Validating segment data in directory: %s\n", dir)

	if err := validateSegmentData(dir); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	fmt.Println("Validation passed")

	return nil
}

func validateSegmentData(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return errors.Errorf("directory does not exist: %s", dir)
	}

	segmentsPath := filepath.Join(dir, "segments.csv")
	if _, err := os.Stat(segmentsPath); os.IsNotExist(err) {
		return errors.New("required file missing: segments.csv")
	}

	checksum, err := util.CalculateFileChecksum(segmentsPath)
	if err != nil {
		return err
	}
	fmt.Printf("  segments.csv sha256: %s\n", checksum)

	loader := network.NewCSVLoader(dir, network.ProjectionWGS84)
	segments, err := loader.Load()
	if err != nil {
		return errors.Wrap(err, "failed to parse segments.csv")
	}
	fmt.Printf("  segments: %d\n", len(segments))

	graph, err := network.Build(segments, network.DefaultFilterRule(), nil)
	if err != nil {
		return errors.Wrap(err, "segment data does not yield a usable network")
	}
	fmt.Printf("  filtered component: %d edges, %d nodes\n", graph.NumEdges(), len(graph.NodeIDs()))
	fmt.Printf("  total population weight: %.0f\n", graph.TotalWeight())
	fmt.Printf("  total length: %.0f m\n", graph.TotalLength())

	return nil
}
