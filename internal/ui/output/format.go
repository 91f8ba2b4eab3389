package output

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/ui/style"
)

// Outcome renders one outcome as a single line without a trailing newline.
func Outcome(out *termenv.Output, o domain.Outcome) string {
	icon, color := style.Outcome(o)
	prefix := out.String(icon).Foreground(out.Color(string(color))).String()

	switch o.Kind {
	case domain.OutcomeRenamed:
		line := fmt.Sprintf("%s %s %s %s", prefix, o.Path, style.Arrow, o.NewPath)
		if notes := renameNotes(o); len(notes) > 0 {
			line += out.String(" (" + strings.Join(notes, ", ") + ")").Faint().String()
		}
		return line
	case domain.OutcomeSkipped:
		return fmt.Sprintf("%s %s: %s", prefix, o.Path, o.Reason)
	default:
		return fmt.Sprintf("%s %s: %v", prefix, o.Path, o.Err)
	}
}

func renameNotes(o domain.Outcome) []string {
	var notes []string
	if o.DryRun {
		notes = append(notes, "dry run")
	}
	if o.Deduplicated {
		notes = append(notes, "duplicate")
	}
	if o.Copied {
		notes = append(notes, "copied")
	}
	return notes
}

// Summary renders the run totals as a single line without a trailing newline.
func Summary(s domain.Summary) string {
	renamed := fmt.Sprintf("%d renamed", s.Renamed)
	if s.Deduplicated > 0 {
		renamed += fmt.Sprintf(" (%d duplicate)", s.Deduplicated)
	}
	return fmt.Sprintf("%s, %d skipped, %d failed", renamed, s.Skipped, s.Failed)
}
