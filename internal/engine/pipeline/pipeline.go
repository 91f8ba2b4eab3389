// Package pipeline drives candidates from traversal through hashing and renaming.
package pipeline

import (
	"context"
	"iter"

	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// queueFactor sizes the work queue relative to the number of workers.
const queueFactor = 2

// Processor turns one candidate into an outcome using the given digester.
type Processor interface {
	Process(c domain.Candidate, d ports.Digester) domain.Outcome
}

// Pipeline processes candidates sequentially or with a bounded pool of workers.
type Pipeline struct {
	processor   Processor
	newDigester ports.DigesterFactory
	jobs        int
}

// New creates a new Pipeline. Every worker gets its own digester from
// newDigester. A jobs value below one is treated as one.
func New(processor Processor, newDigester ports.DigesterFactory, jobs int) *Pipeline {
	return &Pipeline{
		processor:   processor,
		newDigester: newDigester,
		jobs:        max(jobs, 1),
	}
}

// Run consumes candidates and yields one outcome per candidate. Traversal
// errors become Failed outcomes. Processing stops between files once ctx is
// done or the consumer stops iterating.
//
// With one job, outcomes follow traversal order. With more, their order is
// unspecified.
func (p *Pipeline) Run(ctx context.Context, candidates iter.Seq2[domain.Candidate, error]) iter.Seq[domain.Outcome] {
	if p.jobs == 1 {
		return p.sequential(ctx, candidates)
	}
	return p.parallel(ctx, candidates)
}

func (p *Pipeline) sequential(ctx context.Context, candidates iter.Seq2[domain.Candidate, error]) iter.Seq[domain.Outcome] {
	return func(yield func(domain.Outcome) bool) {
		d := p.newDigester()
		for c, err := range candidates {
			if ctx.Err() != nil {
				return
			}
			if !yield(p.process(c, err, d)) {
				return
			}
		}
	}
}

func (p *Pipeline) parallel(ctx context.Context, candidates iter.Seq2[domain.Candidate, error]) iter.Seq[domain.Outcome] {
	return func(yield func(domain.Outcome) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		state := &runState{
			work:    make(chan domain.Candidate, queueFactor*p.jobs),
			results: make(chan domain.Outcome, p.jobs),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return state.feed(gctx, candidates)
		})
		for range p.jobs {
			g.Go(func() error {
				return state.worker(gctx, p, p.newDigester())
			})
		}

		go func() {
			_ = g.Wait()
			close(state.results)
		}()

		for out := range state.results {
			if !yield(out) {
				cancel()
				break
			}
		}
		// Unblock workers still sending after an early stop.
		for range state.results {
		}
	}
}

func (p *Pipeline) process(c domain.Candidate, err error, d ports.Digester) domain.Outcome {
	if err != nil {
		return domain.Failed(c.Path, err)
	}
	return p.processor.Process(c, d)
}

type runState struct {
	work    chan domain.Candidate
	results chan domain.Outcome
}

// feed runs the traversal, queueing candidates and reporting traversal errors
// directly.
func (s *runState) feed(ctx context.Context, candidates iter.Seq2[domain.Candidate, error]) error {
	defer close(s.work)
	for c, err := range candidates {
		if err != nil {
			if !s.send(ctx, domain.Failed(c.Path, err)) {
				return ctx.Err()
			}
			continue
		}
		select {
		case s.work <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// worker processes queued candidates with its own digester until the queue
// is closed or ctx is done.
func (s *runState) worker(ctx context.Context, p *Pipeline, d ports.Digester) error {
	for c := range s.work {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.send(ctx, p.processor.Process(c, d)) {
			return ctx.Err()
		}
	}
	return nil
}

func (s *runState) send(ctx context.Context, out domain.Outcome) bool {
	select {
	case s.results <- out:
		return true
	case <-ctx.Done():
		return false
	}
}
