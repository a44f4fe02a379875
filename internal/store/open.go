package store

import (
	"fmt"
	"path/filepath"
)

// Open creates the blob store selected by the backend name. The filesystem
// backend lives directly under dir; the sqlite backend keeps one database
// file there.
func Open(backend, dir string) (Blob, error) {
	switch backend {
	case "fs":
		return NewFS(dir), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "triagetrack.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
