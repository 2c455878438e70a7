package export

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMetadata_RoundTrip(t *testing.T) {
	metadata := NewRunMetadata("exact")
	metadata.Input = InputInfo{DataDir: "data", SHA256: "abc123", Segments: 42, Edges: 17}
	metadata.Parameters = Parameters{
		Seed:       7,
		SampleSize: 80,
		MaxRoutes:  5,
		MinLengthM: 1000,
		MaxLengthM: 8000,
		Waypoints:  8,
		TimeLimit:  "2m0s",
	}
	metadata.Output = OutputInfo{
		Routes:            4,
		SkippedCandidates: []int{12},
		Coverage:          0.615,
		TimedOut:          true,
	}

	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, metadata.Write(path))

	loaded, err := LoadRunMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, metadata.RunID, loaded.RunID)
	assert.Equal(t, "exact", loaded.Solver)
	assert.Equal(t, metadata.Input, loaded.Input)
	assert.Equal(t, metadata.Parameters, loaded.Parameters)
	assert.Equal(t, metadata.Output, loaded.Output)
	assert.True(t, metadata.GeneratedAt.Equal(loaded.GeneratedAt))
}

func TestNewRunMetadata_FreshRunID(t *testing.T) {
	a := NewRunMetadata("greedy")
	b := NewRunMetadata("greedy")

	_, err := uuid.Parse(a.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestLoadRunMetadata_Missing(t *testing.T) {
	_, err := LoadRunMetadata(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
