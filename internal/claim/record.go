package claim

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// recordsFrom pulls the record list out of a decoded extraction payload.
// Anything other than an object with a "records" array yields no records;
// array elements that are not objects are skipped.
func recordsFrom(payload any) []ClaimRecord {
	records := []ClaimRecord{}

	obj, ok := payload.(map[string]any)
	if !ok {
		return records
	}
	list, ok := obj["records"].([]any)
	if !ok {
		return records
	}

	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		charges, chargesText := amountField(m, "total_charges")
		records = append(records, ClaimRecord{
			PatientName:      stringField(m, "patient_name"),
			PatientID:        stringField(m, "patient_id"),
			AdmissionDate:    stringField(m, "admission_date"),
			DischargeDate:    stringField(m, "discharge_date"),
			TotalCharges:     charges,
			TotalChargesText: chargesText,
			Diagnosis:        stringField(m, "diagnosis"),
			Summary:          stringField(m, "summary"),
			HospitalName:     stringField(m, "hospital_name"),
		})
	}
	return records
}

// stringField renders scalar values as text. Nested values are kept as
// compact JSON rather than dropped.
func stringField(m map[string]any, key string) *string {
	var s string
	switch v := m[key].(type) {
	case nil:
		return nil
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		s = string(b)
	}
	return &s
}

// amountField accepts a JSON number or a numeric string such as
// "$1,250.00". A present value that is not a finite amount, such as "N/A"
// or "NaN", yields a nil amount and is returned as text instead.
func amountField(m map[string]any, key string) (*float64, *string) {
	v, present := m[key]
	if !present || v == nil {
		return nil, nil
	}

	var (
		f  float64
		ok bool
	)
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		f, ok = parsed, err == nil
	case float64:
		f, ok = n, true
	case string:
		f, ok = parseAmount(n)
	}
	if ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return &f, nil
	}
	return nil, stringField(m, key)
}

var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "USD", "", "usd", "")

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	negative := false
	// Accounting notation: (500.00)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountReplacer.Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}
