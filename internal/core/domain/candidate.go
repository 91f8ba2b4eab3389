package domain

import "time"

// Candidate is a regular file selected by traversal for hashing.
type Candidate struct {
	Path    string
	ModTime time.Time
	Size    int64
}
