package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/forkful/forkful/config"
	"github.com/forkful/forkful/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager.
// Call once at application startup (e.g. in internal/server/server.go).
func Connect() {
	defaultDisk = config.StorageDefault()

	// Always boot local disk.
	disks["local"] = NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())

	// Boot S3 disk only if bucket is configured.
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
//
//	storage.Use("s3").Put(ctx, "restaurants/42/photo.jpg", r)
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk lets you plug in a custom Disk implementation at boot time.
// Tests use it to swap in an in-memory disk.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	if defaultDisk == "" {
		defaultDisk = name
	}
	managerMu.Unlock()
}

// Default returns the default disk (STORAGE_DISK env var, default "local").
func Default() Disk { return Use(defaultDisk) }

// Put writes content to path on the default disk.
func Put(ctx context.Context, path string, r io.Reader) error {
	return Default().Put(ctx, path, r)
}

// Get returns object content from the default disk.
func Get(ctx context.Context, path string) ([]byte, error) {
	return Default().Get(ctx, path)
}

// Exists reports whether path exists on the default disk.
func Exists(ctx context.Context, path string) bool {
	return Default().Exists(ctx, path)
}

// Delete removes path from the default disk.
func Delete(ctx context.Context, path string) error {
	return Default().Delete(ctx, path)
}

// DeleteAll removes a batch of paths from the default disk.
func DeleteAll(ctx context.Context, paths []string) error {
	return Default().DeleteAll(ctx, paths)
}

// URL returns the public URL of path on the default disk.
func URL(path string) string { return Default().URL(path) }
