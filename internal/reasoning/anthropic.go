package reasoning

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-cli/pkg/anthropic"
)

const defaultMaxTokens = 4096

// Anthropic completes prompts with a Claude model.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	stage     string
}

// NewAnthropic wraps an anthropic.Client as a Reasoner for one stage.
func NewAnthropic(client anthropic.Client, model string, maxTokens int, stage string) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Anthropic{
		client:    client,
		model:     model,
		maxTokens: int64(maxTokens),
		stage:     stage,
	}
}

// Complete implements Reasoner.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrapf(err, "reasoning: %s completion", a.stage)
	}

	resp.Usage.LogCost(a.model, a.stage, DocumentFrom(ctx))

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", eris.Wrapf(ErrEmptyResponse, "reasoning: %s completion (stop_reason=%s)", a.stage, resp.StopReason)
	}
	return text, nil
}
