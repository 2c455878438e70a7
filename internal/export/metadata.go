package export

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RunMetadata records the provenance of one optimizer run next to its
// outputs so downstream consumers can trace results back to inputs and
// parameters.
type RunMetadata struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Solver      string     `json:"solver"`
	Input       InputInfo  `json:"input"`
	Parameters  Parameters `json:"parameters"`
	Output      OutputInfo `json:"output"`
}

// InputInfo identifies the source segment data.
type InputInfo struct {
	DataDir  string `json:"data_dir"`
	SHA256   string `json:"sha256,omitempty"`
	Segments int    `json:"segments"`
	Edges    int    `json:"edges"`
}

// Parameters echoes the configuration the run used.
type Parameters struct {
	Seed       int64   `json:"seed"`
	SampleSize int     `json:"sample_size"`
	MaxRoutes  int     `json:"max_routes"`
	MinLengthM float64 `json:"min_length_m"`
	MaxLengthM float64 `json:"max_length_m,omitempty"`
	Waypoints  int     `json:"waypoints"`
	TimeLimit  string  `json:"time_limit,omitempty"`
}

// OutputInfo summarizes what the run produced, including skipped routes so
// failures remain enumerable post-hoc.
type OutputInfo struct {
	Routes            int     `json:"routes"`
	SkippedCandidates []int   `json:"skipped_candidates,omitempty"`
	Coverage          float64 `json:"coverage"`
	SweepCells        int     `json:"sweep_cells,omitempty"`
	TimedOut          bool    `json:"timed_out"`
}

// NewRunMetadata creates metadata with a fresh run ID and timestamp.
func NewRunMetadata(solver string) *RunMetadata {
	return &RunMetadata{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Solver:      solver,
	}
}

// Write serializes the metadata as indented JSON.
func (m *RunMetadata) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal run metadata")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write run metadata")
	}

	return nil
}

// LoadRunMetadata reads metadata written by a previous run.
func LoadRunMetadata(path string) (*RunMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read run metadata")
	}

	var metadata RunMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to parse run metadata")
	}

	return &metadata, nil
}
