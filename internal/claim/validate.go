package claim

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ValidationFallbackSummary marks a validation result that was not
// produced by the reasoning call.
const ValidationFallbackSummary = "LLM returned non-JSON"

// ValidationFallback is the worst-case result used whenever validation
// output cannot be used.
func ValidationFallback() ValidationResult {
	return ValidationResult{
		Summary:     ValidationFallbackSummary,
		Records:     []RecordIssues{},
		HasErrors:   true,
		HasWarnings: true,
	}
}

// validationWire mirrors ValidationResult with the flags optional so that
// output missing them can be told apart from output reporting false.
type validationWire struct {
	Summary     string         `json:"validation_summary"`
	Records     []RecordIssues `json:"records"`
	HasErrors   *bool          `json:"has_errors"`
	HasWarnings *bool          `json:"has_warnings"`
}

// Validate cross-checks records against the raw text. It never fails: a
// call error or undecodable output degrades to ValidationFallback.
func (p *Pipeline) Validate(ctx context.Context, records []ClaimRecord, rawText, fileName string) ValidationResult {
	log := zap.L().With(zap.String("file_name", fileName))

	out, err := p.reasoners.Validation.Complete(ctx, validationPrompt(records, rawText, fileName))
	if err != nil {
		log.Warn("claim: validation call failed, assuming worst case", zap.Error(err))
		return ValidationFallback()
	}

	result, err := parseValidation(out)
	if err != nil {
		log.Warn("claim: validation output unusable, assuming worst case", zap.Error(err))
		return ValidationFallback()
	}
	return result
}

func parseValidation(raw string) (ValidationResult, error) {
	decoded := Decode(raw, validationWire{})
	if !decoded.OK {
		return ValidationResult{}, decoded.Err
	}
	w := decoded.Value
	if w.HasErrors == nil || w.HasWarnings == nil {
		return ValidationResult{}, eris.New("validation: has_errors and has_warnings are required")
	}

	result := ValidationResult{
		Summary:     w.Summary,
		Records:     make([]RecordIssues, 0, len(w.Records)),
		HasErrors:   *w.HasErrors,
		HasWarnings: *w.HasWarnings,
	}
	for _, rec := range w.Records {
		issues := make([]ValidationIssue, 0, len(rec.Issues))
		for _, iss := range rec.Issues {
			iss.Severity = Severity(strings.ToUpper(strings.TrimSpace(string(iss.Severity))))
			issues = append(issues, iss)
		}
		result.Records = append(result.Records, RecordIssues{Index: rec.Index, Issues: issues})
	}
	return result, nil
}
