package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidwtbuxton/captain-pasty/models"
)

// FilesystemObjectStore implements ObjectStore on a local directory, mapping
// storage paths onto a directory tree under dataDir. Intended for
// single-node deployments and development.
type FilesystemObjectStore struct {
	dataDir string
}

// NewFilesystemObjectStore creates a store rooted at dataDir, creating the
// directory if needed.
func NewFilesystemObjectStore(dataDir string) (*FilesystemObjectStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory must not be empty")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FilesystemObjectStore{dataDir: dataDir}, nil
}

// localPath maps a storage path to a filesystem path confined to dataDir.
func (fs *FilesystemObjectStore) localPath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", &models.InvalidPathError{Path: path}
	}
	return filepath.Join(fs.dataDir, clean), nil
}

func (fs *FilesystemObjectStore) Put(ctx context.Context, path string, data []byte) error {
	local, err := fs.localPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		log.Printf("[ERROR] FS Put: failed to create directory for %s: %v", path, err)
		return &models.StorageError{Op: "put", Path: path, Err: err}
	}
	if err := os.WriteFile(local, data, 0o644); err != nil {
		log.Printf("[ERROR] FS Put: failed to write %s: %v", path, err)
		return &models.StorageError{Op: "put", Path: path, Err: err}
	}
	return nil
}

func (fs *FilesystemObjectStore) Get(ctx context.Context, path string) ([]byte, error) {
	local, err := fs.localPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &models.NotFoundError{Kind: "object", ID: path}
		}
		log.Printf("[ERROR] FS Get: failed to read %s: %v", path, err)
		return nil, &models.StorageError{Op: "get", Path: path, Err: err}
	}
	return data, nil
}

func (fs *FilesystemObjectStore) Delete(ctx context.Context, path string) error {
	local, err := fs.localPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		log.Printf("[ERROR] FS Delete: failed to remove %s: %v", path, err)
		return &models.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}
