// Package detector provides environment detection for presentation mode selection.
package detector

import (
	"os"

	"go.trai.ch/mdhasher/internal/core/domain"
	"golang.org/x/term"
)

// Detector decides which presentation mode suits the current environment.
type Detector struct {
	isTerminal func() bool
	getenv     func(string) string
}

// New creates a Detector that inspects stdout and the process environment.
func New() *Detector {
	return &Detector{
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		getenv:     os.Getenv,
	}
}

// DetectEnvironment returns the recommended mode: a rewriting status line on
// an interactive terminal, one line per outcome in pipes and CI.
func (d *Detector) DetectEnvironment() domain.LogMode {
	ci := d.getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !d.isTerminal() || isCI {
		return domain.LogModeFull
	}
	return domain.LogModeTerminal
}

// Resolve returns requested unless it is LogModeAuto, in which case the
// environment decides.
func (d *Detector) Resolve(requested domain.LogMode) domain.LogMode {
	if requested != domain.LogModeAuto {
		return requested
	}
	return d.DetectEnvironment()
}
