// Package terminal provides a renderer that keeps a single rewriting status
// line on an interactive terminal.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/ui/output"
	"golang.org/x/term"
)

const ellipsis = "…"

// Renderer implements ports.Renderer for the "terminal" logging mode.
// Every outcome replaces the status line; failures are printed above it and
// stay visible.
type Renderer struct {
	out   *termenv.Output
	width func() int

	mu     sync.Mutex
	count  int
	status bool
}

// NewRenderer creates a Renderer writing to w. When w is a terminal, status
// lines are cut to its width.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}

	width := func() int { return 0 }
	if f, ok := w.(*os.File); ok {
		fd := int(f.Fd())
		width = func() int {
			cols, _, err := term.GetSize(fd)
			if err != nil {
				return 0
			}
			return cols
		}
	}

	return &Renderer{
		out:   output.New(w),
		width: width,
	}
}

// OnOutcome replaces the status line with the outcome.
func (r *Renderer) OnOutcome(o domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	r.clearLocked()

	line := output.Outcome(r.out, o)
	if o.Kind == domain.OutcomeFailed {
		_, _ = fmt.Fprintln(r.out, line)
		return
	}

	status := fmt.Sprintf("[%d] %s", r.count, line)
	if cols := r.width(); cols > 1 {
		status = ansi.Truncate(status, cols-1, ellipsis)
	}
	_, _ = r.out.WriteString(status)
	r.status = true
}

// OnSummary clears the status line and prints the run totals.
func (r *Renderer) OnSummary(s domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked()
	_, _ = fmt.Fprintln(r.out, output.Summary(s))
}

// Stop clears a status line left on screen.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked()
	return nil
}

// clearLocked erases the status line. Must be called with r.mu held.
func (r *Renderer) clearLocked() {
	if !r.status {
		return
	}
	_, _ = r.out.WriteString("\r")
	r.out.ClearLine()
	r.status = false
}
