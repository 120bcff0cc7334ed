package claim

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// DecisionFallbackRationale marks a decision that was not produced by the
// reasoning call.
const DecisionFallbackRationale = "Non-JSON decision output."

// DecisionFallback is the conservative verdict used whenever decision
// output cannot be used. It is never an approval.
func DecisionFallback() DecisionResult {
	return DecisionResult{
		Decision:   DecisionUnknown,
		Rationale:  DecisionFallbackRationale,
		Conditions: []string{},
		RiskLevel:  RiskHigh,
	}
}

type decisionWire struct {
	Decision   string   `json:"decision"`
	Rationale  string   `json:"rationale"`
	Conditions []string `json:"conditions"`
	RiskLevel  string   `json:"risk_level"`
}

// Decide asks the decision reasoner for a verdict under ClaimRulesPrompt.
// A call error or undecodable output degrades to DecisionFallback.
func (p *Pipeline) Decide(ctx context.Context, records []ClaimRecord, validation ValidationResult, fileName string) DecisionResult {
	log := zap.L().With(zap.String("file_name", fileName))

	out, err := p.reasoners.Decision.Complete(ctx, decisionPrompt(records, validation, fileName))
	if err != nil {
		log.Warn("claim: decision call failed, using conservative fallback", zap.Error(err))
		return DecisionFallback()
	}

	decoded := Decode(out, decisionWire{})
	if !decoded.OK {
		log.Warn("claim: decision output unusable, using conservative fallback", zap.Error(decoded.Err))
		return DecisionFallback()
	}

	w := decoded.Value
	conditions := w.Conditions
	if conditions == nil {
		conditions = []string{}
	}
	return DecisionResult{
		Decision:   normalizeDecision(w.Decision),
		Rationale:  w.Rationale,
		Conditions: conditions,
		RiskLevel:  normalizeRisk(w.RiskLevel),
	}
}

// normalizeDecision maps free-form verdicts onto Decision. An absent value
// stays empty; anything unrecognized becomes UNKNOWN.
func normalizeDecision(s string) Decision {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ""
	case "APPROVE", "APPROVED":
		return DecisionApprove
	case "REJECT", "REJECTED", "DENY", "DENIED":
		return DecisionReject
	default:
		return DecisionUnknown
	}
}

// normalizeRisk maps free-form risk levels onto RiskLevel. An absent value
// stays empty; anything unrecognized is treated as HIGH.
func normalizeRisk(s string) RiskLevel {
	switch r := RiskLevel(strings.ToUpper(strings.TrimSpace(s))); r {
	case "":
		return ""
	case RiskLow, RiskMedium, RiskHigh:
		return r
	default:
		return RiskHigh
	}
}
