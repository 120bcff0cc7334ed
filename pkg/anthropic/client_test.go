package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: `{"records":`},
			{Type: "tool_use", Text: "ignored"},
			{Type: "", Text: ` []}`},
		},
	}
	assert.Equal(t, `{"records": []}`, resp.Text())
}

func TestMessageResponse_TextNil(t *testing.T) {
	var resp *MessageResponse
	assert.Empty(t, resp.Text())
	assert.Empty(t, (&MessageResponse{}).Text())
}

func TestSDKTypeConversion_toSDKMessages(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi there"},
		{Role: "system", Content: "unknown role"},
	}

	sdkMsgs := toSDKMessages(msgs)
	require.Len(t, sdkMsgs, 3)
	assert.Equal(t, "user", string(sdkMsgs[0].Role))
	assert.Equal(t, "assistant", string(sdkMsgs[1].Role))
	assert.Equal(t, "user", string(sdkMsgs[2].Role))
}

func TestSDKTypeConversion_toSDKSystemBlocks(t *testing.T) {
	blocks := []SystemBlock{
		{Text: "You are a claim validation agent."},
		{Text: "Output JSON only."},
	}

	sdkBlocks := toSDKSystemBlocks(blocks)
	require.Len(t, sdkBlocks, 2)
	assert.Equal(t, "You are a claim validation agent.", sdkBlocks[0].Text)
	assert.Equal(t, "Output JSON only.", sdkBlocks[1].Text)
}

func TestNewClient_ReturnsNonNil(t *testing.T) {
	assert.NotNil(t, NewClient("test-key"))
	assert.NotNil(t, NewClient(""))
}

func TestEstimateCost_Haiku(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	// input: 1M * $0.80/MTok = $0.80
	// output: 1M * $4.00/MTok = $4.00
	assert.InDelta(t, 4.80, cost, 0.001)
}

func TestEstimateCost_Sonnet(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 18.00, cost, 0.001)
}

func TestEstimateCost_WithCache(t *testing.T) {
	usage := TokenUsage{
		InputTokens:              500_000,
		OutputTokens:             100_000,
		CacheCreationInputTokens: 200_000,
		CacheReadInputTokens:     300_000,
	}
	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	// input: 0.5M * $0.80 = $0.40
	// output: 0.1M * $4.00 = $0.40
	// cacheWrite: 0.2M * $0.80 * 1.25 = $0.20
	// cacheRead: 0.3M * $0.80 * 0.10 = $0.024
	assert.InDelta(t, 1.024, cost, 0.001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.Equal(t, 0.0, usage.EstimateCost("unknown-model"))
}

func TestEstimateCost_ZeroTokens(t *testing.T) {
	assert.Equal(t, 0.0, TokenUsage{}.EstimateCost("claude-haiku-4-5-20251001"))
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		usage := TokenUsage{InputTokens: 100, OutputTokens: 50}
		usage.LogCost("claude-haiku-4-5-20251001", "extraction", "claim.pdf")
	})

	assert.NotPanics(t, func() {
		TokenUsage{}.LogCost("unknown-model", "", "")
	})
}
