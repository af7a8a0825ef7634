// Package storage provides a filesystem abstraction over object storage.
//
// Two drivers are available out of the box:
//   - "local"  — local filesystem (default)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	// boot once (e.g. in internal/server):
//	storage.Connect()
//
//	storage.Put(ctx, "restaurants/42/photo.jpg", bytes.NewReader(data))
//	url := storage.URL("restaurants/42/photo.jpg")
package storage

import (
	"context"
	"io"
)

// Disk is the object storage driver interface.
type Disk interface {
	// Put writes the content of r to path, creating parents as needed.
	Put(ctx context.Context, path string, r io.Reader) error

	// Get returns the full content of the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes one object. Returns nil if it did not exist.
	Delete(ctx context.Context, path string) error

	// DeleteAll removes a batch of objects in one operation where the
	// backend supports it. Used to drain a restaurant's images before the
	// record itself is removed.
	DeleteAll(ctx context.Context, paths []string) error

	// URL returns the public URL for path.
	URL(path string) string
}
