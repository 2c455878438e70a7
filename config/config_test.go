package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: test
  servicename: corridor
  log:
    pretty: true
    level: debug
network:
  datapath: ./data
  projection: wgs84
  minlanes: 4
  classes:
    - primary
    - trunk
candidates:
  samplesize: 80
  seed: 42
  workers: 4
solver:
  mode: exact
  maxroutes: 10
  timelimit: 2m
  minroutelengthm: 1000
  maxroutelengthm: 8000
sweep:
  budgets: [5, 10, 15]
  maxlengthsm: [3000, 5000, 8000]
  minlengthm: 1000
  workers: 2
export:
  outputpath: ./out
  waypoints: 8
`

func writeConfig(t *testing.T, name, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644))
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", name)
}

func TestNew_LoadsYAML(t *testing.T) {
	writeConfig(t, "test_config", testYAML)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Env)
	assert.Equal(t, "corridor", cfg.Env.ServiceName)
	assert.True(t, cfg.Env.Log.Pretty)
	assert.Equal(t, "debug", cfg.Env.Log.Level)

	assert.Equal(t, "./data", cfg.Network.DataPath)
	assert.Equal(t, "wgs84", cfg.Network.Projection)
	assert.Equal(t, 4, cfg.Network.MinLanes)
	assert.Equal(t, []string{"primary", "trunk"}, cfg.Network.Classes)

	assert.Equal(t, 80, cfg.Candidates.SampleSize)
	assert.Equal(t, int64(42), cfg.Candidates.Seed)

	assert.Equal(t, "exact", cfg.Solver.Mode)
	assert.Equal(t, 10, cfg.Solver.MaxRoutes)
	assert.Equal(t, 2*time.Minute, cfg.Solver.TimeLimit)
	assert.Equal(t, 1000.0, cfg.Solver.MinRouteLengthM)
	assert.Equal(t, 8000.0, cfg.Solver.MaxRouteLengthM)

	assert.Equal(t, []int{5, 10, 15}, cfg.Sweep.Budgets)
	assert.Equal(t, []float64{3000, 5000, 8000}, cfg.Sweep.MaxLengthsM)

	assert.Equal(t, "./out", cfg.Export.OutputPath)
	assert.Equal(t, 8, cfg.Export.Waypoints)
}

func TestNew_EnvOverride(t *testing.T) {
	writeConfig(t, "test_override", testYAML)
	t.Setenv("SOLVER_MAXROUTES", "25")
	t.Setenv("SOLVER_MODE", "greedy")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Solver.MaxRoutes)
	assert.Equal(t, "greedy", cfg.Solver.Mode)
}

func TestNew_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "does_not_exist")

	_, err := New()
	assert.Error(t, err)
}

func TestNew_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing data path", `
network:
  projection: wgs84
candidates:
  samplesize: 80
solver:
  mode: exact
  maxroutes: 10
export:
  outputpath: ./out
`},
		{"bad solver mode", `
network:
  datapath: ./data
candidates:
  samplesize: 80
solver:
  mode: simplex
  maxroutes: 10
export:
  outputpath: ./out
`},
		{"bad projection", `
network:
  datapath: ./data
  projection: utm38
candidates:
  samplesize: 80
solver:
  mode: exact
  maxroutes: 10
export:
  outputpath: ./out
`},
		{"zero sample size", `
network:
  datapath: ./data
candidates:
  samplesize: 0
solver:
  mode: exact
  maxroutes: 10
export:
  outputpath: ./out
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writeConfig(t, "test_invalid", tc.yaml)

			_, err := New()
			assert.Error(t, err)
		})
	}
}
