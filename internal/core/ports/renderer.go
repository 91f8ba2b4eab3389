package ports

import "go.trai.ch/mdhasher/internal/core/domain"

// Renderer presents the outcome stream of a run.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnOutcome is called once per processed candidate, in emission order.
	OnOutcome(o domain.Outcome)
	// OnSummary is called once after the last outcome.
	OnSummary(s domain.Summary)
	// Stop flushes any pending output.
	Stop() error
}
