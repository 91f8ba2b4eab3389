package domain

import "time"

const (
	// ConfigFileName is the name of the optional defaults file.
	ConfigFileName = ".mdhasher.yaml"

	// GitDirName is the repository metadata directory, always pruned from traversal.
	GitDirName = ".git"

	// GitIgnoreFileName is the git ignore file read in every visited directory.
	GitIgnoreFileName = ".gitignore"

	// IgnoreFileName is the tool-agnostic ignore file. It takes precedence over
	// GitIgnoreFileName in the same directory.
	IgnoreFileName = ".ignore"

	// DefaultDigest is the digest algorithm used when none is configured.
	DefaultDigest = "sha256"

	// DefaultWindow is the default recency window of the staleness filter.
	DefaultWindow = 24 * time.Hour

	// DefaultJobs is the default number of files processed at once.
	DefaultJobs = 1
)

// IgnoreFileNames returns the per-directory ignore files in increasing order of precedence.
func IgnoreFileNames() []string {
	return []string{GitIgnoreFileName, IgnoreFileName}
}
