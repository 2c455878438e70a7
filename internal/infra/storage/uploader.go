// Package storage uploads run outputs to a blob bucket. The monitoring
// portals downstream read result CSVs from object storage, so the pipeline
// can push its outputs to any gocloud-supported bucket URL (gs://, file://).
package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gocloud.dev/blob"

	// Bucket URL schemes supported out of the box.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
)

// Uploader pushes local files into one bucket.
type Uploader struct {
	bucketURL string
	logger    *slog.Logger
}

// NewUploader creates an uploader for the given bucket URL. An empty URL
// disables uploading.
func NewUploader(bucketURL string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Uploader{bucketURL: bucketURL, logger: logger}
}

// Enabled reports whether a bucket URL is configured.
func (u *Uploader) Enabled() bool {
	return u.bucketURL != ""
}

// UploadFiles copies each local file into the bucket under its base name.
func (u *Uploader) UploadFiles(ctx context.Context, paths ...string) error {
	if !u.Enabled() {
		return nil
	}

	bucket, err := blob.OpenBucket(ctx, u.bucketURL)
	if err != nil {
		return errors.Wrapf(err, "failed to open bucket %s", u.bucketURL)
	}
	defer bucket.Close()

	for _, path := range paths {
		if err := u.uploadOne(ctx, bucket, path); err != nil {
			return err
		}
	}

	return nil
}

func (u *Uploader) uploadOne(ctx context.Context, bucket *blob.Bucket, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	key := filepath.Base(path)
	writer, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to create bucket writer for %s", key)
	}

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()

		return errors.Wrapf(err, "failed to upload %s", key)
	}

	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "failed to finalize upload of %s", key)
	}

	u.logger.Info("uploaded output", "bucket", u.bucketURL, "key", key)

	return nil
}
