package claim

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Extract turns raw document text into normalized claim records. Any
// failure of the reasoning call or of decoding its output yields an
// ExtractionResult carrying an error, which ends the pipeline for the
// document.
func (p *Pipeline) Extract(ctx context.Context, rawText, fileName string) ExtractionResult {
	out, err := p.reasoners.Extraction.Complete(ctx, extractionPrompt(rawText, fileName))
	if err != nil {
		return extractionFailure(fileName, eris.Wrap(err, "extraction"))
	}

	decoded := Decode[any](out, nil)
	if !decoded.OK {
		return extractionFailure(fileName, decoded.Err)
	}

	return ExtractionResult{
		FileName: fileName,
		Records:  recordsFrom(decoded.Value),
	}
}

func extractionFailure(fileName string, err error) ExtractionResult {
	zap.L().Warn("claim: extraction failed",
		zap.String("file_name", fileName),
		zap.Error(err),
	)
	return ExtractionResult{
		FileName: fileName,
		Error:    "Failed to process with AI agent: " + err.Error(),
	}
}
