package reasoning

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing requestsPerSecond calls with the given
// burst, or nil when requestsPerSecond is not positive.
func NewLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Limited delays calls to the wrapped Reasoner until the shared limiter
// admits them. It never rejects a call; it only waits.
type Limited struct {
	next    Reasoner
	limiter *rate.Limiter
}

// WithLimiter wraps r so that every call waits on limiter. A nil limiter
// returns r unchanged.
func WithLimiter(r Reasoner, limiter *rate.Limiter) Reasoner {
	if limiter == nil {
		return r
	}
	return &Limited{next: r, limiter: limiter}
}

// Complete implements Reasoner.
func (l *Limited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "reasoning: rate limit wait")
	}
	return l.next.Complete(ctx, prompt)
}
