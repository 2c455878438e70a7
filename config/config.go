// Package config loads the pipeline configuration from a YAML file with
// environment variable overrides, through koanf.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

// Config is the full pipeline configuration.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	Network    NetworkConfig    `json:"network" yaml:"network"`
	Candidates CandidatesConfig `json:"candidates" yaml:"candidates"`
	Solver     SolverConfig     `json:"solver" yaml:"solver"`
	Sweep      SweepConfig      `json:"sweep" yaml:"sweep"`
	Export     ExportConfig     `json:"export" yaml:"export"`
}

// Log configures the slog handler.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// NetworkConfig locates and filters the input road segments.
type NetworkConfig struct {
	// Directory containing segments.csv
	DataPath string `json:"dataPath" yaml:"dataPath" validate:"required"`

	// Input geometry projection: wgs84 or webmercator
	Projection string `json:"projection" yaml:"projection" validate:"omitempty,oneof=wgs84 webmercator"`

	// Minimum lane count to retain a segment regardless of class
	MinLanes int `json:"minLanes" yaml:"minLanes"`

	// Road classes retained regardless of lane count
	Classes []string `json:"classes" yaml:"classes"`
}

// CandidatesConfig controls candidate path generation.
type CandidatesConfig struct {
	// Number of nodes sampled for pair generation
	SampleSize int `json:"sampleSize" yaml:"sampleSize" validate:"gt=0"`

	// RNG seed for node sampling
	Seed int64 `json:"seed" yaml:"seed"`

	// Concurrent shortest-path workers
	Workers int `json:"workers" yaml:"workers"`
}

// SolverConfig picks and bounds the selection strategy.
type SolverConfig struct {
	// exact or greedy
	Mode string `json:"mode" yaml:"mode" validate:"oneof=exact greedy"`

	// Route budget for a single optimize run
	MaxRoutes int `json:"maxRoutes" yaml:"maxRoutes" validate:"gt=0"`

	// Time limit for the exact search; the incumbent is kept on expiry
	TimeLimit time.Duration `json:"timeLimit" yaml:"timeLimit"`

	// Candidate length window for a single optimize run, meters
	MinRouteLengthM float64 `json:"minRouteLengthM" yaml:"minRouteLengthM"`
	MaxRouteLengthM float64 `json:"maxRouteLengthM" yaml:"maxRouteLengthM"`
}

// SweepConfig describes the parameter grid.
type SweepConfig struct {
	Budgets     []int     `json:"budgets" yaml:"budgets"`
	MaxLengthsM []float64 `json:"maxLengthsM" yaml:"maxLengthsM"`
	MinLengthM  float64   `json:"minLengthM" yaml:"minLengthM"`
	Workers     int       `json:"workers" yaml:"workers"`
}

// ExportConfig controls route export and optional bucket upload.
type ExportConfig struct {
	// Output directory for routes.csv, sweep.csv and metadata.json
	OutputPath string `json:"outputPath" yaml:"outputPath" validate:"required"`

	// Interior waypoints per exported route
	Waypoints int `json:"waypoints" yaml:"waypoints" validate:"gte=0"`

	// Optional bucket URL (gs://..., file://...) to receive outputs
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
}

// New loads the configuration named by the CONFIG_ENV environment variable
// (default "config"), searching the working directory and any extra paths.
func New(configPath ...string) (*Config, error) {
	currEnv := os.Getenv("CONFIG_ENV")
	if currEnv == "" {
		currEnv = "config"
	}

	cfg, err := LoadWithEnv[Config](currEnv, configPath...)
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

// LoadWithEnv loads a .yaml file through koanf, then applies environment
// variable overrides (e.g. SOLVER_MAXROUTES=25 overrides solver.maxRoutes).
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	// Load environment variables: SECTION_KEY -> section.key
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return strings.ToLower(strings.ReplaceAll(k, "_", ".")), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}
