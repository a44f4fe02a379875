package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFS(dir)

	if _, err := s.Read("2024-07-15-issues"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing key, got %v", err)
	}

	payload := []byte(`[{"number":1}]`)
	if err := s.Write("2024-07-15-issues", payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := s.Read("2024-07-15-issues")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Round trip mismatch: got %q", got)
	}

	// The blob lands as a JSON file, with no leftover temp file.
	if _, err := os.Stat(filepath.Join(dir, "2024-07-15-issues.json")); err != nil {
		t.Errorf("Expected blob file to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2024-07-15-issues.json.tmp")); !os.IsNotExist(err) {
		t.Error("Expected temp file to be gone after write")
	}
}

func TestFSOverwrite(t *testing.T) {
	s := NewFS(t.TempDir())

	if err := s.Write("k", []byte("old")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write("k", []byte("new")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	got, err := s.Read("k")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Expected overwritten value, got %q", got)
	}
}

func TestFSDelete(t *testing.T) {
	s := NewFS(t.TempDir())

	if err := s.Delete("absent"); err != nil {
		t.Errorf("Deleting a missing key should not error, got %v", err)
	}

	if err := s.Write("k", []byte("v")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Read("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
