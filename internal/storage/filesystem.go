package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is a filesystem implementation of the Store interface.
// Each key maps to one file under the root directory:
//
//	<root>/
//	  <key>.snap
//
// Writes go through a temp file followed by a rename, so a crash mid-write
// leaves the previous snapshot intact rather than a truncated one.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at the given directory,
// creating it if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (f *FileStore) path(key string) string {
	// Keys are fixed identifiers, not user input, but keep path separators
	// out of filenames anyway.
	safe := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(f.root, safe+".snap")
}

func (f *FileStore) Put(key string, data []byte) error {
	dest := f.path(key)
	tmp, err := os.CreateTemp(f.root, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (f *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, true, nil
}

func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
