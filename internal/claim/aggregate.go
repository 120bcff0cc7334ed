package claim

import "strings"

// ExtractionFailedReason is the claim decision reason for documents whose
// extraction failed.
const ExtractionFailedReason = "Extraction failed"

// Aggregate merges the stage outputs for one document into a ClaimOutcome.
// A failed extraction short-circuits to a high-risk rejection and val and
// dec are ignored. Nil val or dec are treated as absent payloads.
func Aggregate(ext ExtractionResult, val *ValidationResult, dec *DecisionResult) ClaimOutcome {
	if ext.Failed() {
		return ClaimOutcome{
			FileName:  ext.FileName,
			Error:     ext.Error,
			Documents: []DocumentSummary{},
			Validation: ValidationOutcome{
				MissingDocuments: []DocumentType{DocumentBill, DocumentDischargeSummary},
				Discrepancies:    []string{},
			},
			ClaimDecision: ClaimDecision{
				Status:    strings.ToLower(string(DecisionReject)),
				Reason:    ExtractionFailedReason,
				RiskLevel: RiskHigh,
			},
		}
	}

	documents, missing := classify(ext.Records)
	return ClaimOutcome{
		FileName:  ext.FileName,
		Documents: documents,
		Validation: ValidationOutcome{
			MissingDocuments: missing,
			Discrepancies:    discrepancies(val),
		},
		ClaimDecision: claimDecision(dec),
	}
}

func classify(records []ClaimRecord) ([]DocumentSummary, []DocumentType) {
	documents := []DocumentSummary{}
	var hasBill, hasDischarge bool

	for _, r := range records {
		if r.HasCharges() || r.AdmissionDate != nil || r.DischargeDate != nil {
			hasBill = true
			documents = append(documents, BillDocument{
				Type:          DocumentBill,
				HospitalName:  r.HospitalName,
				TotalAmount:   r.TotalCharges,
				DateOfService: firstNonEmpty(r.DischargeDate, r.AdmissionDate),
			})
		}
		if r.PatientName != nil || r.Diagnosis != nil || r.AdmissionDate != nil || r.DischargeDate != nil {
			hasDischarge = true
			documents = append(documents, DischargeSummaryDocument{
				Type:          DocumentDischargeSummary,
				PatientName:   r.PatientName,
				Diagnosis:     r.Diagnosis,
				AdmissionDate: r.AdmissionDate,
				DischargeDate: r.DischargeDate,
			})
		}
	}

	missing := []DocumentType{}
	if !hasBill {
		missing = append(missing, DocumentBill)
	}
	if !hasDischarge {
		missing = append(missing, DocumentDischargeSummary)
	}
	return documents, missing
}

func discrepancies(val *ValidationResult) []string {
	out := []string{}
	if val == nil {
		return out
	}
	for _, rec := range val.Records {
		for _, iss := range rec.Issues {
			if iss.Message != nil && *iss.Message != "" {
				out = append(out, *iss.Message)
			}
		}
	}
	return out
}

func claimDecision(dec *DecisionResult) ClaimDecision {
	cd := ClaimDecision{
		Status:    strings.ToLower(string(DecisionReject)),
		RiskLevel: RiskHigh,
	}
	if dec == nil {
		return cd
	}
	if dec.Decision != "" {
		cd.Status = strings.ToLower(string(dec.Decision))
	}
	cd.Reason = dec.Rationale
	if dec.RiskLevel != "" {
		cd.RiskLevel = dec.RiskLevel
	}
	return cd
}

func firstNonEmpty(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
