// Package style provides the colors and icons shared by the log handler and
// the outcome renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mdhasher/internal/core/domain"
)

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
	Equal   = "="
)

// Outcome returns the icon and color used to present an outcome.
func Outcome(o domain.Outcome) (string, lipgloss.Color) {
	switch o.Kind {
	case domain.OutcomeRenamed:
		switch {
		case o.DryRun:
			return Tilde, Iris
		case o.Deduplicated:
			return Equal, Green
		default:
			return Check, Green
		}
	case domain.OutcomeSkipped:
		return Circle, Slate
	default:
		return Cross, Red
	}
}
