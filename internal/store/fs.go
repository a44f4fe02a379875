package store

import (
	"os"
	"path/filepath"
	"sync"
)

// FS stores each blob as a JSON file under a root directory.
type FS struct {
	root      string
	writeLock sync.Mutex
}

// NewFS creates a filesystem-backed blob store rooted at dir.
func NewFS(dir string) *FS {
	return &FS{root: dir}
}

// Path returns the filesystem path for the given key (for debugging).
func (s *FS) Path(key string) string {
	return filepath.Join(s.root, key+".json")
}

// Read returns the blob for key, or ErrNotFound.
func (s *FS) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write persists the blob atomically using temp file + rename.
func (s *FS) Write(key string, data []byte) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Delete removes the blob for key.
func (s *FS) Delete(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Blob; the filesystem store holds no resources.
func (s *FS) Close() error {
	return nil
}
