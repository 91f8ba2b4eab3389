package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrUnknownAlgorithm is returned when a digest name does not map to a supported algorithm.
	ErrUnknownAlgorithm = zerr.New("unknown digest algorithm")

	// ErrNoPaths is returned when no root paths are given.
	ErrNoPaths = zerr.New("no paths specified")

	// ErrPathNotFound is returned when a root path does not exist.
	ErrPathNotFound = zerr.New("path does not exist")

	// ErrUnknownLogMode is returned when a logging mode name is not recognized.
	ErrUnknownLogMode = zerr.New("unknown logging mode")

	// ErrInvalidWindow is returned when the staleness window is not positive.
	ErrInvalidWindow = zerr.New("staleness window must be positive")

	// ErrInvalidJobs is returned when the worker count is not positive.
	ErrInvalidJobs = zerr.New("number of jobs must be at least 1")

	// ErrConfigReadFailed is returned when the defaults file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the defaults file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrIgnoreFileReadFailed is returned when an ignore file cannot be read.
	ErrIgnoreFileReadFailed = zerr.New("failed to read ignore file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrReadDirFailed is returned when a directory cannot be listed.
	ErrReadDirFailed = zerr.New("failed to read directory")

	// ErrRenameFailed is returned when moving a file to its content-addressed name fails.
	ErrRenameFailed = zerr.New("failed to rename file")

	// ErrTargetExists is returned by the no-clobber move when the target name is taken.
	ErrTargetExists = zerr.New("target already exists")

	// ErrCollision is returned when the content-addressed name is held by different content.
	ErrCollision = zerr.New("target name is occupied by different content")

	// ErrCopyVerifyFailed is returned when the copy fallback produces a mismatching copy.
	ErrCopyVerifyFailed = zerr.New("copied file does not match source")
)

// configurationErrors lists the sentinels that abort a run before traversal begins.
var configurationErrors = []error{
	ErrUnknownAlgorithm,
	ErrNoPaths,
	ErrPathNotFound,
	ErrUnknownLogMode,
	ErrInvalidWindow,
	ErrInvalidJobs,
	ErrConfigReadFailed,
	ErrConfigParseFailed,
}

// IsConfigurationError reports whether err stems from invalid run configuration.
func IsConfigurationError(err error) bool {
	for _, target := range configurationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
