package reasoning

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAI completes prompts with an OpenAI chat model.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	stage     string
}

// NewOpenAI builds an OpenAI-backed Reasoner. BaseURL overrides the API
// endpoint (OpenAI-compatible gateways).
func NewOpenAI(opts Options) *OpenAI {
	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientConfig.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
		stage:     opts.Stage,
	}
}

// Complete implements Reasoner.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", eris.Wrapf(err, "reasoning: %s completion", o.stage)
	}

	zap.L().Info("cost attribution",
		zap.String("model", o.model),
		zap.String("phase", o.stage),
		zap.String("file_name", DocumentFrom(ctx)),
		zap.Int("input_tokens", resp.Usage.PromptTokens),
		zap.Int("output_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", eris.Wrapf(ErrEmptyResponse, "reasoning: %s completion", o.stage)
	}
	return resp.Choices[0].Message.Content, nil
}
