package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploader_Disabled(t *testing.T) {
	uploader := NewUploader("", nil)

	assert.False(t, uploader.Enabled())
	assert.NoError(t, uploader.UploadFiles(context.Background(), "irrelevant.csv"))
}

func TestUploader_FileBucket(t *testing.T) {
	src := filepath.Join(t.TempDir(), "routes.csv")
	require.NoError(t, os.WriteFile(src, []byte("route_id,length_m\n0,1234.5\n"), 0644))

	bucketDir := t.TempDir()
	uploader := NewUploader("file://"+bucketDir, nil)
	require.True(t, uploader.Enabled())

	require.NoError(t, uploader.UploadFiles(context.Background(), src))

	uploaded, err := os.ReadFile(filepath.Join(bucketDir, "routes.csv"))
	require.NoError(t, err)
	assert.Equal(t, "route_id,length_m\n0,1234.5\n", string(uploaded))
}

func TestUploader_MissingSource(t *testing.T) {
	uploader := NewUploader("file://"+t.TempDir(), nil)

	err := uploader.UploadFiles(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
