// Package linear provides a synchronous, line-per-outcome renderer for pipes
// and CI logs.
package linear

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/ui/output"
)

// Renderer implements ports.Renderer by printing one line per outcome.
// In quiet mode only failures are printed and the summary is omitted.
type Renderer struct {
	stdout *termenv.Output
	stderr *termenv.Output
	quiet  bool

	mu sync.Mutex
}

// NewRenderer creates a Renderer for the "full" logging mode. Outcomes go to
// stdout, failures to stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	return newRenderer(stdout, stderr, false)
}

// NewQuietRenderer creates a Renderer for the "quiet" logging mode.
func NewQuietRenderer(stderr io.Writer) *Renderer {
	return newRenderer(io.Discard, stderr, true)
}

func newRenderer(stdout, stderr io.Writer, quiet bool) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: output.NewWithProfile(stdout, output.ColorProfileANSI),
		stderr: output.NewWithProfile(stderr, output.ColorProfileANSI),
		quiet:  quiet,
	}
}

// OnOutcome prints the outcome line.
func (r *Renderer) OnOutcome(o domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Kind == domain.OutcomeFailed {
		_, _ = fmt.Fprintln(r.stderr, output.Outcome(r.stderr, o))
		return
	}
	if r.quiet {
		return
	}
	_, _ = fmt.Fprintln(r.stdout, output.Outcome(r.stdout, o))
}

// OnSummary prints the run totals.
func (r *Renderer) OnSummary(s domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet {
		return
	}
	_, _ = fmt.Fprintln(r.stdout, output.Summary(s))
}

// Stop is a no-op; every line is written synchronously.
func (r *Renderer) Stop() error {
	return nil
}
