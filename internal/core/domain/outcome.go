package domain

// OutcomeKind classifies the result of processing one candidate.
type OutcomeKind uint8

const (
	// OutcomeRenamed indicates the file now lives at its content-addressed name.
	OutcomeRenamed OutcomeKind = iota
	// OutcomeSkipped indicates the file was left untouched on purpose.
	OutcomeSkipped
	// OutcomeFailed indicates the file could not be processed.
	OutcomeFailed
)

// String returns the lowercase name of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRenamed:
		return "renamed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SkipReason explains a Skipped outcome.
type SkipReason string

const (
	// SkipAlreadyNamed means the file name already equals its digest.
	SkipAlreadyNamed SkipReason = "already named after its digest"
	// SkipSameFile means the target name refers to the same file as the source.
	SkipSameFile SkipReason = "target is the same file"
)

// Outcome is the record emitted for every processed candidate.
type Outcome struct {
	Kind    OutcomeKind
	Path    string
	NewPath string
	Digest  string
	Reason  SkipReason
	Err     error

	// Deduplicated is set when the target already held identical content and
	// the source replaced it.
	Deduplicated bool
	// Copied is set when the copy-verify-delete fallback was used instead of
	// an atomic rename.
	Copied bool
	// DryRun is set when the rename was computed but not performed.
	DryRun bool
}

// Renamed builds a Renamed outcome.
func Renamed(oldPath, newPath, digest string) Outcome {
	return Outcome{Kind: OutcomeRenamed, Path: oldPath, NewPath: newPath, Digest: digest}
}

// Skipped builds a Skipped outcome.
func Skipped(path string, reason SkipReason) Outcome {
	return Outcome{Kind: OutcomeSkipped, Path: path, Reason: reason}
}

// Failed builds a Failed outcome.
func Failed(path string, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Path: path, Err: err}
}

// Summary tallies the outcomes of a run.
type Summary struct {
	Renamed      int
	Deduplicated int
	Skipped      int
	Failed       int
}

// Add records one outcome.
func (s *Summary) Add(o Outcome) {
	switch o.Kind {
	case OutcomeRenamed:
		s.Renamed++
		if o.Deduplicated {
			s.Deduplicated++
		}
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Total returns the number of recorded outcomes.
func (s Summary) Total() int {
	return s.Renamed + s.Skipped + s.Failed
}
