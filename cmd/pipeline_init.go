package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/claim"
	"github.com/sells-group/claims-cli/internal/config"
	"github.com/sells-group/claims-cli/internal/ocr"
	"github.com/sells-group/claims-cli/internal/reasoning"
)

// pipelineEnv holds the text source and claim pipeline needed by the
// serve and process commands.
type pipelineEnv struct {
	Pipeline    *claim.Pipeline
	Text        claim.TextSource
	Concurrency int
}

// initPipeline validates the config for mode, logs non-fatal config
// warnings and builds the pipeline.
func initPipeline(mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	cfg.LogWarnings()

	reasoners, err := initReasoners(cfg)
	if err != nil {
		return nil, err
	}

	extractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return nil, eris.Wrap(err, "init text extractor")
	}

	zap.L().Info("pipeline initialized",
		zap.String("provider", cfg.Reasoning.Provider),
		zap.String("extraction_model", cfg.Reasoning.ExtractionModel),
		zap.String("validation_model", cfg.Reasoning.ValidationModel),
		zap.String("decision_model", cfg.Reasoning.DecisionModel),
		zap.String("ocr_provider", cfg.OCR.Provider),
	)

	return &pipelineEnv{
		Pipeline:    claim.NewPipeline(reasoners),
		Text:        ocr.Normalized(ocr.NewCached(extractor, cfg.OCR.CacheTTL)),
		Concurrency: cfg.Pipeline.MaxConcurrentDocuments,
	}, nil
}

// initReasoners builds one reasoner per stage. All stages share a single
// rate limiter since they draw on the same provider quota.
func initReasoners(c *config.Config) (claim.Reasoners, error) {
	limiter := reasoning.NewLimiter(c.Reasoning.RateLimit, c.Reasoning.Burst)

	var baseURL string
	if strings.EqualFold(c.Reasoning.Provider, "openai") {
		baseURL = c.OpenAI.BaseURL
	}

	build := func(stage, model string) (reasoning.Reasoner, error) {
		r, err := reasoning.New(reasoning.Options{
			Provider:  c.Reasoning.Provider,
			Model:     model,
			APIKey:    c.ReasoningKey(),
			BaseURL:   baseURL,
			MaxTokens: c.Reasoning.MaxTokens,
			Stage:     stage,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "init %s reasoner", stage)
		}
		return reasoning.WithLimiter(r, limiter), nil
	}

	var (
		rs  claim.Reasoners
		err error
	)
	if rs.Extraction, err = build("extraction", c.Reasoning.ExtractionModel); err != nil {
		return claim.Reasoners{}, err
	}
	if rs.Validation, err = build("validation", c.Reasoning.ValidationModel); err != nil {
		return claim.Reasoners{}, err
	}
	if rs.Decision, err = build("decision", c.Reasoning.DecisionModel); err != nil {
		return claim.Reasoners{}, err
	}
	return rs, nil
}
