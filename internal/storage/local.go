package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage stores media objects on the local filesystem under a media
// root directory. Intended for development; production deployments use MinIO.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the media root directory if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{root: root}, nil
}

// Put writes an object under the media root, creating prefix directories as
// needed. The size and content type are ignored; the filesystem keeps neither.
func (l *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Get opens an object below the media root.
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(l.root, filepath.FromSlash(key)))
}
