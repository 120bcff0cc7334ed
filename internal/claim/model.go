// Package claim runs uploaded claim documents through the extraction,
// validation and decision stages and aggregates the findings into one
// claim-level outcome per document.
package claim

import "encoding/json"

// Severity classifies the blocking weight of a validation finding.
type Severity string

// Validation severities, in increasing weight.
const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Decision is the verdict of the decision stage.
type Decision string

// Decision values. UNKNOWN is only produced when the decision output could
// not be understood.
const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
	DecisionUnknown Decision = "UNKNOWN"
)

// RiskLevel is the risk classification attached to a decision.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ClaimRecord is one patient/billing entry extracted from a document. Every
// field is nil when the document does not state it. TotalChargesText keeps
// an extracted charge that is not a usable amount, in which case
// TotalCharges is nil.
type ClaimRecord struct {
	PatientName      *string  `json:"patient_name"`
	PatientID        *string  `json:"patient_id"`
	AdmissionDate    *string  `json:"admission_date"`
	DischargeDate    *string  `json:"discharge_date"`
	TotalCharges     *float64 `json:"total_charges"`
	TotalChargesText *string  `json:"total_charges_text,omitempty"`
	Diagnosis        *string  `json:"diagnosis"`
	Summary          *string  `json:"summary"`
	HospitalName     *string  `json:"hospital_name"`
}

// HasCharges reports whether the record states any charge, usable as an
// amount or not.
func (r ClaimRecord) HasCharges() bool {
	return r.TotalCharges != nil || r.TotalChargesText != nil
}

// ExtractionResult is the output of the extraction stage. Exactly one of
// Records (possibly empty) or Error is meaningful.
type ExtractionResult struct {
	FileName string        `json:"file_name"`
	Records  []ClaimRecord `json:"records,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Failed reports whether extraction failed for the document.
func (r ExtractionResult) Failed() bool {
	return r.Error != ""
}

// ValidationIssue is one per-field finding. Message may be null in
// reasoning output; such issues do not surface as discrepancies.
type ValidationIssue struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  *string  `json:"message"`
}

// RecordIssues groups the issues found for the record at Index.
type RecordIssues struct {
	Index  int               `json:"index"`
	Issues []ValidationIssue `json:"issues"`
}

// ValidationResult is the output of the validation stage. HasErrors and
// HasWarnings are reported by the reasoning call, not recomputed.
type ValidationResult struct {
	Summary     string         `json:"validation_summary"`
	Records     []RecordIssues `json:"records"`
	HasErrors   bool           `json:"has_errors"`
	HasWarnings bool           `json:"has_warnings"`
}

// DecisionResult is the output of the decision stage. Decision and
// RiskLevel are empty when the reasoning output omitted them.
type DecisionResult struct {
	Decision   Decision  `json:"decision"`
	Rationale  string    `json:"rationale"`
	Conditions []string  `json:"conditions"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// DocumentType names a kind of supporting document a claim needs.
type DocumentType string

// Document types detected by the aggregator.
const (
	DocumentBill             DocumentType = "bill"
	DocumentDischargeSummary DocumentType = "discharge_summary"
)

// DocumentSummary is one classified document entry in a ClaimOutcome.
type DocumentSummary interface {
	DocumentType() DocumentType
}

// BillDocument summarizes a record classified as a bill.
type BillDocument struct {
	Type          DocumentType `json:"type"`
	HospitalName  *string      `json:"hospital_name"`
	TotalAmount   *float64     `json:"total_amount"`
	DateOfService *string      `json:"date_of_service"`
}

// DocumentType implements DocumentSummary.
func (BillDocument) DocumentType() DocumentType { return DocumentBill }

// DischargeSummaryDocument summarizes a record classified as a discharge summary.
type DischargeSummaryDocument struct {
	Type          DocumentType `json:"type"`
	PatientName   *string      `json:"patient_name"`
	Diagnosis     *string      `json:"diagnosis"`
	AdmissionDate *string      `json:"admission_date"`
	DischargeDate *string      `json:"discharge_date"`
}

// DocumentType implements DocumentSummary.
func (DischargeSummaryDocument) DocumentType() DocumentType { return DocumentDischargeSummary }

// ValidationOutcome is the consolidated validation view of a claim.
type ValidationOutcome struct {
	MissingDocuments []DocumentType `json:"missing_documents"`
	Discrepancies    []string       `json:"discrepancies"`
}

// ClaimDecision is the final claim-level verdict.
type ClaimDecision struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// ClaimOutcome is the aggregated result for one document. It is built fresh
// for every run and never modified afterwards.
type ClaimOutcome struct {
	FileName      string            `json:"file_name"`
	Error         string            `json:"error,omitempty"`
	Documents     []DocumentSummary `json:"documents"`
	Validation    ValidationOutcome `json:"validation"`
	ClaimDecision ClaimDecision     `json:"claim_decision"`
}

// Result is one entry of a multi-document response: either an outcome, or
// an error for a document that never entered the pipeline.
type Result struct {
	FileName string
	Outcome  *ClaimOutcome
	Error    string
}

// MarshalJSON renders the outcome itself, or {file_name, error}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Outcome != nil {
		return json.Marshal(r.Outcome)
	}
	return json.Marshal(struct {
		FileName string `json:"file_name"`
		Error    string `json:"error"`
	}{r.FileName, r.Error})
}
