package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localDisk stores objects on the local filesystem under a root directory.
type localDisk struct {
	root string
	url  string
}

// NewLocalDisk returns a Disk rooted at dir. url is the public base URL
// objects are served from (may be empty in CLI contexts).
func NewLocalDisk(dir, url string) Disk {
	return &localDisk{root: dir, url: strings.TrimRight(url, "/")}
}

func (d *localDisk) fullPath(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimLeft(path, "/")))
}

func (d *localDisk) Put(_ context.Context, path string, r io.Reader) error {
	full := d.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (d *localDisk) Get(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(d.fullPath(path))
}

func (d *localDisk) Exists(_ context.Context, path string) bool {
	_, err := os.Stat(d.fullPath(path))
	return err == nil
}

func (d *localDisk) Delete(_ context.Context, path string) error {
	err := os.Remove(d.fullPath(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *localDisk) DeleteAll(ctx context.Context, paths []string) error {
	for _, p := range paths {
		if err := d.Delete(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (d *localDisk) URL(path string) string {
	return d.url + "/" + strings.TrimLeft(path, "/")
}
