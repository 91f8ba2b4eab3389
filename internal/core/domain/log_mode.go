package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// LogMode selects how outcomes are presented.
type LogMode uint8

const (
	// LogModeAuto picks LogModeTerminal on interactive terminals and LogModeFull otherwise.
	LogModeAuto LogMode = iota
	// LogModeTerminal rewrites a single status line per file.
	LogModeTerminal
	// LogModeFull prints one line per outcome.
	LogModeFull
	// LogModeQuiet prints nothing except failures.
	LogModeQuiet
)

// String returns the canonical name of the mode.
func (m LogMode) String() string {
	switch m {
	case LogModeAuto:
		return "auto"
	case LogModeTerminal:
		return "terminal"
	case LogModeFull:
		return "full"
	case LogModeQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogMode maps a mode name or one of its aliases to a LogMode.
func ParseLogMode(name string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return LogModeAuto, nil
	case "terminal", "interactive", "default":
		return LogModeTerminal, nil
	case "full", "lines", "pipe":
		return LogModeFull, nil
	case "none", "quiet":
		return LogModeQuiet, nil
	default:
		return LogModeAuto, zerr.With(zerr.Wrap(ErrUnknownLogMode, "invalid logging mode"), "mode", name)
	}
}
