// Package storage writes uploaded files to a Disk. Two drivers exist:
// "local" (a directory on the host, default) and "s3" (any S3-compatible
// object store: AWS S3, MinIO, R2).
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("storage: file not found")

// Disk is implemented by every driver. Paths are slash separated and
// relative to the disk root.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
}
