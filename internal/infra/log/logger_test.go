package logs

import (
	"log/slog"
	"testing"

	"corridor/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.Level = "debug"

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	cfg.Env.Log.Level = "error"
	logger, err = New(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelWarn))
}

func TestNew_UnknownLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.Level = "verbose"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestParseLogLevel_Defaults(t *testing.T) {
	level, err := parseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
