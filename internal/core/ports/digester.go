// Package ports defines the core interfaces for the application.
package ports

import "io"

// Digester computes content digests.
//
// A Digester is not safe for concurrent use: it owns the hash state and scratch
// buffer of one in-flight file and must be reset between files.
//
//go:generate go run go.uber.org/mock/mockgen -source=digester.go -destination=mocks/mock_digester.go -package=mocks
type Digester interface {
	// Hash consumes r completely and returns the lowercase hex digest of its bytes.
	// The digester is reset afterwards, whether or not reading failed.
	Hash(r io.Reader) (string, error)
	// Name returns the canonical algorithm name, e.g. "sha256".
	Name() string
}

// DigesterFactory creates independent digesters for the same algorithm.
type DigesterFactory func() Digester
