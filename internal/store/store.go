// Package store provides the durable blob store backing the snapshot and
// activity-fact caches.
//
// Two backends are available: a filesystem store with one file per key, and a
// SQLite store with a single blobs table. Both expose the same key-value
// surface; callers never see backend details.
package store

import "errors"

// ErrNotFound is returned by Read when no blob exists for the key.
var ErrNotFound = errors.New("blob not found")

// Blob is a durable key-value store for opaque byte payloads.
type Blob interface {
	// Read returns the blob for key, or ErrNotFound.
	Read(key string) ([]byte, error)
	// Write persists the blob under key, replacing any previous value.
	Write(key string, data []byte) error
	// Delete removes the blob for key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases any backend resources.
	Close() error
}
