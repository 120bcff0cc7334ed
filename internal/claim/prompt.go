package claim

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ClaimRulesPrompt is the normative instruction given to the decision
// stage. Approval policy lives here and is not re-checked in code.
const ClaimRulesPrompt = `You are a claim decision agent. Using validation findings and extracted data, decide APPROVE or REJECT.
Apply these rules:
- Dates must be chronologically consistent (admission <= discharge) and no critical identifier may be missing.
- Charges must be non-negative and within plausible bounds for the procedures described.
- Diagnosis and summary must be plausible and must not contradict each other.
- Approval requires that there are no ERROR-level validation issues. WARNINGs may still allow approval with conditions noted.

Output JSON ONLY in this schema:
{
  "decision": "APPROVE" | "REJECT",
  "rationale": "string",
  "conditions": ["string"],
  "risk_level": "LOW" | "MEDIUM" | "HIGH"
}`

// ExampleRecordSchema shows the extraction stage the expected output shape.
const ExampleRecordSchema = `{
  "records": [
    {
      "patient_name": "Jane Doe",
      "patient_id": "P-100234",
      "admission_date": "2024-01-05",
      "discharge_date": "2024-01-10",
      "total_charges": 12500.75,
      "diagnosis": "Community-acquired pneumonia",
      "summary": "Admitted with fever and productive cough, treated with IV antibiotics, discharged stable.",
      "hospital_name": "St. Mary General Hospital"
    }
  ]
}`

const extractionTemplate = `You are an intelligent data extraction agent. Analyze the following text extracted from a healthcare document named '%s'.
The document may contain multiple patient records, including billing information, discharge summaries and other documents.

1. Read the entire text.
2. Identify each distinct patient record.
3. For each record extract:
   - patient_name: the full name of the patient.
   - patient_id: the unique identifier for the patient.
   - admission_date: the date of admission.
   - discharge_date: the date of discharge.
   - total_charges: the total billing amount as a number.
   - diagnosis: a brief summary of the primary diagnosis.
   - summary: the key points from the discharge summary.
   - hospital_name: the name of the billing or treating hospital.
4. Return a single JSON object whose "records" key holds the list of extracted records.

Use null for any value that is not present. Return ONLY the JSON object, with no explanation or other text.

Example JSON schema:
%s

Text to process:
---
%s
---`

const validationTemplate = `You are a strict validation agent for healthcare claim documents. You are given the extracted JSON data for file '%s' and the raw text extracted from the PDF.

Tasks:
1. Validate presence and plausibility of key fields per record (patient_name, patient_id, admission_date, discharge_date, total_charges, diagnosis, summary). A total_charges_text value holds a charge that could not be read as a number.
2. Identify inconsistencies between the extracted JSON and the raw text: dates out of order, discharge before admission, missing IDs, malformed dates, negative or implausibly large charges, conflicting diagnoses.
3. Report issues per record with severity INFO, WARNING or ERROR. ERROR is blocking, WARNING is not, INFO is informational.
4. Output JSON ONLY in this schema:
{
  "validation_summary": "string",
  "records": [
    {"index": number, "issues": [{"field": "string", "severity": "INFO|WARNING|ERROR", "message": "string"}]}
  ],
  "has_errors": boolean,
  "has_warnings": boolean
}

Extracted JSON:
---
%s
---

Raw text:
---
%s
---`

const decisionTemplate = `File: %s

Rules:
---
%s
---

Extracted JSON:
---
%s
---

Validation:
---
%s
---`

func extractionPrompt(rawText, fileName string) string {
	return fmt.Sprintf(extractionTemplate, fileName, ExampleRecordSchema, rawText)
}

func validationPrompt(records []ClaimRecord, rawText, fileName string) string {
	return fmt.Sprintf(validationTemplate, fileName, recordsJSON(records), rawText)
}

func decisionPrompt(records []ClaimRecord, validation ValidationResult, fileName string) string {
	v, err := json.MarshalIndent(validation, "", "  ")
	if err != nil {
		v = []byte("{}")
	}
	return fmt.Sprintf(decisionTemplate, fileName, ClaimRulesPrompt, recordsJSON(records), v)
}

func recordsJSON(records []ClaimRecord) string {
	if records == nil {
		records = []ClaimRecord{}
	}
	b, err := json.MarshalIndent(struct {
		Records []ClaimRecord `json:"records"`
	}{records}, "", "  ")
	if err != nil {
		zap.L().Warn("claim: encode records for prompt", zap.Error(err))
		return `{"records": []}`
	}
	return string(b)
}
