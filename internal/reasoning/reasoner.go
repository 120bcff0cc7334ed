// Package reasoning provides the text-completion capability that claim
// pipeline stages delegate their judgment to. A Reasoner takes a prompt and
// returns free-form text; providers are interchangeable behind it.
package reasoning

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-cli/pkg/anthropic"
)

// Reasoner completes a natural-language prompt. Implementations must be safe
// for concurrent use.
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to the Reasoner interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete implements Reasoner.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	// ErrMissingCredential is returned by every call on a reasoner built
	// without an API key.
	ErrMissingCredential = eris.New("reasoning: no API key configured")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = eris.New("reasoning: empty response")
)

// Options selects and configures a provider for one pipeline stage.
type Options struct {
	Provider  string // "anthropic" (default) or "openai"
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
	Stage     string // used for cost attribution and error context
}

// New builds a Reasoner for opts. A missing API key is not an error here:
// the returned reasoner fails each call with ErrMissingCredential instead.
func New(opts Options) (Reasoner, error) {
	provider := strings.ToLower(opts.Provider)
	if provider == "" {
		provider = "anthropic"
	}

	switch provider {
	case "anthropic", "claude":
		if opts.APIKey == "" {
			return unconfigured{provider: "anthropic"}, nil
		}
		var reqOpts []option.RequestOption
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
		return NewAnthropic(anthropic.NewClient(opts.APIKey, reqOpts...), opts.Model, opts.MaxTokens, opts.Stage), nil
	case "openai":
		if opts.APIKey == "" {
			return unconfigured{provider: "openai"}, nil
		}
		return NewOpenAI(opts), nil
	default:
		return nil, eris.Errorf("reasoning: unknown provider %q (supported: anthropic, openai)", opts.Provider)
	}
}

// unconfigured stands in for a provider whose credential was never supplied.
type unconfigured struct {
	provider string
}

func (u unconfigured) Complete(_ context.Context, _ string) (string, error) {
	return "", eris.Wrapf(ErrMissingCredential, "reasoning: %s", u.provider)
}

type documentKey struct{}

// WithDocument tags ctx with the document a completion is made for. It is
// only used for log attribution.
func WithDocument(ctx context.Context, fileName string) context.Context {
	return context.WithValue(ctx, documentKey{}, fileName)
}

// DocumentFrom returns the document name set by WithDocument, or "".
func DocumentFrom(ctx context.Context) string {
	name, _ := ctx.Value(documentKey{}).(string)
	return name
}
