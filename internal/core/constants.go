// Package core provides shared constants and date helpers for triagetrack.
package core

import (
	"os"
	"path/filepath"
)

// API configuration
const (
	APIBaseURL   = "https://api.github.com"
	DefaultRepo  = "rust-lang/rust"
	TokenEnvVar  = "TRIAGETRACK_TOKEN"
	AcceptHeader = "application/vnd.github.v3+json"
	UserAgent    = "triagetrack"
)

// Date formats
const (
	DateFmt     = "2006-01-02"
	DatetimeFmt = "2006-01-02T15:04:05Z"
)

// Pagination
const (
	// MaxPerPage is the hard cap the GitHub API enforces on page size.
	MaxPerPage = 100
	// CommentPerPage is the single-page assumption for comment fetches.
	CommentPerPage = 100
	// TriagePerPage is the page size for triage issue listings.
	TriagePerPage = 10
)

// Triage defaults
const (
	// YardstickDays is how far before today the default yardstick date sits.
	YardstickDays = 365
)

// CacheRoot returns the default cache directory path.
func CacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".triagetrack", "cache")
}

// Version is the current CLI version.
const Version = "0.3.0"
