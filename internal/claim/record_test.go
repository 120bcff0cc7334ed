package claim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, raw string) []ClaimRecord {
	t.Helper()
	d := Decode[any](raw, nil)
	require.True(t, d.OK, "decode: %v", d.Err)
	return recordsFrom(d.Value)
}

func TestRecordsFrom_NormalizesFields(t *testing.T) {
	records := decodeRecords(t, `{"records": [
		{"patient_name": "Jane Doe", "patient_id": 100234, "admission_date": "2024-01-05",
		 "discharge_date": null, "total_charges": "$1,250.50", "diagnosis": {"code": "J18.9"},
		 "summary": true}
	]}`)

	require.Len(t, records, 1)
	r := records[0]
	require.NotNil(t, r.PatientName)
	assert.Equal(t, "Jane Doe", *r.PatientName)
	require.NotNil(t, r.PatientID)
	assert.Equal(t, "100234", *r.PatientID)
	assert.Nil(t, r.DischargeDate)
	require.NotNil(t, r.TotalCharges)
	assert.InDelta(t, 1250.50, *r.TotalCharges, 0.001)
	require.NotNil(t, r.Diagnosis)
	assert.JSONEq(t, `{"code":"J18.9"}`, *r.Diagnosis)
	require.NotNil(t, r.Summary)
	assert.Equal(t, "true", *r.Summary)
	assert.Nil(t, r.HospitalName)
}

func TestRecordsFrom_Charges(t *testing.T) {
	tests := []struct {
		raw      string
		want     *float64
		wantText *string
	}{
		{`-500`, ptr(-500.0), nil},
		{`12500.75`, ptr(12500.75), nil},
		{`"USD 300"`, ptr(300.0), nil},
		{`"(75.00)"`, ptr(-75.0), nil},
		{`"unknown"`, nil, ptr("unknown")},
		{`"N/A"`, nil, ptr("N/A")},
		{`"NaN"`, nil, ptr("NaN")},
		{`"Infinity"`, nil, ptr("Infinity")},
		{`"-Inf"`, nil, ptr("-Inf")},
		{`1e400`, nil, ptr("1e400")},
		{`true`, nil, ptr("true")},
		{`""`, nil, ptr("")},
		{`null`, nil, nil},
		{`[1]`, nil, ptr("[1]")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			records := decodeRecords(t, `{"records": [{"total_charges": `+tt.raw+`}]}`)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantText, records[0].TotalChargesText)
			if tt.want == nil {
				assert.Nil(t, records[0].TotalCharges)
				return
			}
			require.NotNil(t, records[0].TotalCharges)
			assert.InDelta(t, *tt.want, *records[0].TotalCharges, 0.001)
		})
	}
}

func TestRecordsFrom_NonFiniteChargesStayEncodable(t *testing.T) {
	records := decodeRecords(t, `{"records": [{"patient_name": "Jane", "total_charges": "NaN"}]}`)

	prompt := validationPrompt(records, "raw", "a.pdf")
	assert.Contains(t, prompt, `"patient_name": "Jane"`)
	assert.Contains(t, prompt, `"total_charges_text": "NaN"`)

	out := Aggregate(ExtractionResult{FileName: "a.pdf", Records: records}, nil, nil)
	_, err := json.Marshal(Result{FileName: "a.pdf", Outcome: &out})
	require.NoError(t, err)
}

func TestRecordsFrom_UnreadableChargesStillClassifyAsBill(t *testing.T) {
	records := decodeRecords(t, `{"records": [{"total_charges": "see attached"}]}`)

	out := Aggregate(ExtractionResult{Records: records}, nil, nil)
	require.Len(t, out.Documents, 1)
	bill, ok := out.Documents[0].(BillDocument)
	require.True(t, ok)
	assert.Nil(t, bill.TotalAmount)
	assert.Equal(t, []DocumentType{DocumentDischargeSummary}, out.Validation.MissingDocuments)
}

func TestRecordsFrom_Shapes(t *testing.T) {
	assert.Empty(t, decodeRecords(t, `[{"patient_name": "x"}]`))
	assert.Empty(t, decodeRecords(t, `{"data": []}`))
	assert.Empty(t, decodeRecords(t, `{"records": "none"}`))
	assert.NotNil(t, decodeRecords(t, `{"records": []}`))

	records := decodeRecords(t, `{"records": [1, "x", {"patient_name": "A"}, null, {}]}`)
	require.Len(t, records, 2)
	assert.Equal(t, "A", *records[0].PatientName)
	assert.Equal(t, ClaimRecord{}, records[1])
}

func ptr[T any](v T) *T { return &v }
