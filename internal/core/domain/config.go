package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Configuration is the fully resolved input of a run. It is read-only once validated
// and shared by every component for the duration of the run.
type Configuration struct {
	// Digest names the digest algorithm, e.g. "sha256" or "512".
	Digest string
	// ProcessAll bypasses the staleness filter.
	ProcessAll bool
	// RespectIgnore enables ignore-file rules.
	RespectIgnore bool
	// IgnoreFile is an optional extra ignore file applied to every root.
	IgnoreFile string
	// Paths are the traversal roots, in the order given.
	Paths []string
	// Window is the recency window of the staleness filter.
	Window time.Duration
	// Hidden includes dot-files and dot-directories.
	Hidden bool
	// DryRun computes target names without touching the filesystem.
	DryRun bool
	// Jobs is the number of files hashed and renamed at once.
	Jobs int
}

// Validate checks the invariants that do not require filesystem access.
func (c *Configuration) Validate() error {
	if len(c.Paths) == 0 {
		return ErrNoPaths
	}
	if c.Window <= 0 {
		return zerr.With(zerr.Wrap(ErrInvalidWindow, "invalid configuration"), "window", c.Window.String())
	}
	if c.Jobs < 1 {
		return zerr.With(zerr.Wrap(ErrInvalidJobs, "invalid configuration"), "jobs", c.Jobs)
	}
	return nil
}

// Cutoff returns the oldest modification time that is still considered recent.
func (c *Configuration) Cutoff(now time.Time) time.Time {
	return now.Add(-c.Window)
}

// IsStale reports whether a file modified at modTime falls outside the recency window.
// A file modified exactly at the cutoff is recent.
func IsStale(modTime, cutoff time.Time) bool {
	return modTime.Before(cutoff)
}
