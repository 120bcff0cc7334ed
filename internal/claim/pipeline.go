package claim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/reasoning"
)

// Reasoners holds the reasoning capability used by each stage. The same
// Reasoner may serve several stages.
type Reasoners struct {
	Extraction reasoning.Reasoner
	Validation reasoning.Reasoner
	Decision   reasoning.Reasoner
}

// TransitionHook observes state changes of a single document.
type TransitionHook func(fileName string, from, to State)

// Pipeline runs documents through extraction, validation and decision. It
// holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	reasoners    Reasoners
	onTransition TransitionHook
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTransitionHook registers fn to be called on every state change. fn
// is called from the goroutine running the document.
func WithTransitionHook(fn TransitionHook) Option {
	return func(p *Pipeline) { p.onTransition = fn }
}

// NewPipeline creates a Pipeline over the given stage reasoners.
func NewPipeline(r Reasoners, opts ...Option) *Pipeline {
	p := &Pipeline{reasoners: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one document's text to its aggregated outcome. It always
// reaches AGGREGATED; stage failures are folded into the outcome.
func (p *Pipeline) Run(ctx context.Context, rawText, fileName string) ClaimOutcome {
	ctx = reasoning.WithDocument(ctx, fileName)
	log := zap.L().With(zap.String("file_name", fileName))
	start := time.Now()

	state := StatePending
	move := func(to State) {
		if !CanTransition(state, to) {
			log.Error("claim: illegal state transition",
				zap.Stringer("from", state), zap.Stringer("to", to))
		}
		log.Debug("claim: state transition",
			zap.Stringer("from", state), zap.Stringer("to", to))
		if p.onTransition != nil {
			p.onTransition(fileName, state, to)
		}
		state = to
	}

	ext := p.Extract(ctx, rawText, fileName)
	if ext.Failed() {
		move(StateExtractionFailed)
		outcome := Aggregate(ext, nil, nil)
		move(StateAggregated)
		log.Info("claim: document rejected, extraction failed",
			zap.Duration("elapsed", time.Since(start)))
		return outcome
	}
	move(StateExtracted)

	val := p.Validate(ctx, ext.Records, rawText, fileName)
	move(StateValidated)

	dec := p.Decide(ctx, ext.Records, val, fileName)
	move(StateDecided)

	outcome := Aggregate(ext, &val, &dec)
	move(StateAggregated)

	log.Info("claim: document processed",
		zap.Int("records", len(ext.Records)),
		zap.Int("discrepancies", len(outcome.Validation.Discrepancies)),
		zap.String("status", outcome.ClaimDecision.Status),
		zap.String("risk_level", string(outcome.ClaimDecision.RiskLevel)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return outcome
}
