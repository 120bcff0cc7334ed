package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claims-cli/internal/config"
	"github.com/sells-group/claims-cli/internal/reasoning"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.Reasoning.Provider = "anthropic"
	c.Reasoning.ExtractionModel = "claude-haiku-4-5-20251001"
	c.Reasoning.ValidationModel = "claude-haiku-4-5-20251001"
	c.Reasoning.DecisionModel = "claude-sonnet-4-5-20250929"
	c.Reasoning.MaxTokens = 4096
	c.Reasoning.Burst = 5
	c.OCR.Provider = "native"
	c.Server.Port = 8000
	c.Server.MaxUploadMB = 25
	return c
}

func TestInitReasoners_MissingKeyFailsAtUse(t *testing.T) {
	rs, err := initReasoners(testConfig())
	require.NoError(t, err)
	require.NotNil(t, rs.Extraction)
	require.NotNil(t, rs.Validation)
	require.NotNil(t, rs.Decision)

	_, err = rs.Decision.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, reasoning.ErrMissingCredential)
}

func TestInitReasoners_RateLimited(t *testing.T) {
	c := testConfig()
	c.Anthropic.Key = "sk-ant-test"
	c.Reasoning.RateLimit = 2

	rs, err := initReasoners(c)
	require.NoError(t, err)
	assert.IsType(t, &reasoning.Limited{}, rs.Extraction)
	assert.IsType(t, &reasoning.Limited{}, rs.Decision)
}

func TestInitReasoners_OpenAI(t *testing.T) {
	c := testConfig()
	c.Reasoning.Provider = "openai"
	c.OpenAI.Key = "sk-test"

	rs, err := initReasoners(c)
	require.NoError(t, err)
	assert.NotNil(t, rs.Validation)
}

func TestInitReasoners_UnknownProvider(t *testing.T) {
	c := testConfig()
	c.Reasoning.Provider = "gemini"

	_, err := initReasoners(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init extraction reasoner")
}

func TestInitPipeline(t *testing.T) {
	cfg = testConfig()

	env, err := initPipeline("serve")
	require.NoError(t, err)
	assert.NotNil(t, env.Pipeline)
	assert.NotNil(t, env.Text)
	assert.Equal(t, 0, env.Concurrency)
}

func TestInitPipeline_InvalidConfig(t *testing.T) {
	cfg = testConfig()
	cfg.Server.Port = 0

	env, err := initPipeline("serve")
	assert.Nil(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestInitPipeline_BadOCRProvider(t *testing.T) {
	cfg = testConfig()
	cfg.OCR.Provider = "tesseract"

	env, err := initPipeline("process")
	assert.Nil(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init text extractor")
}
