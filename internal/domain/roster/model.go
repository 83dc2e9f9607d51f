package roster

import "strings"

// Patient is one roster record. ClinicalData carries the flat feature map
// that the scoring service consumes; the roster never interprets it beyond
// the insurance flags.
type Patient struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Age          int                    `json:"age"`
	Gender       string                 `json:"gender"`
	Conditions   []string               `json:"conditions"`
	LastVisit    string                 `json:"lastVisit"`
	ClinicalData map[string]interface{} `json:"clinicalData"`
}

// Age group labels used by the cohort filters.
const (
	AgeGroupYoung   = "young"   // <= 30
	AgeGroupMiddle  = "middle"  // 31-50
	AgeGroupSenior  = "senior"  // 51-70
	AgeGroupElderly = "elderly" // 71+
)

// AgeGroup buckets an age into the fixed cohort brackets.
func AgeGroup(age int) string {
	switch {
	case age <= 30:
		return AgeGroupYoung
	case age <= 50:
		return AgeGroupMiddle
	case age <= 70:
		return AgeGroupSenior
	default:
		return AgeGroupElderly
	}
}

// InsuranceType derives the coverage type from the mutually-exclusive
// insurance flags in the clinical data, or "unknown" when none is set.
// Medicaid is checked first to match the original precedence.
func (p *Patient) InsuranceType() string {
	if flagSet(p.ClinicalData, "insurance_medicaid") {
		return "medicaid"
	}
	if flagSet(p.ClinicalData, "insurance_medicare") {
		return "medicare"
	}
	if flagSet(p.ClinicalData, "insurance_private") {
		return "private"
	}
	return "unknown"
}

// HasCondition reports whether the patient carries the given condition
// label, compared case-insensitively.
func (p *Patient) HasCondition(label string) bool {
	for _, c := range p.Conditions {
		if strings.EqualFold(c, label) {
			return true
		}
	}
	return false
}

// flagSet interprets a clinical attribute as a boolean indicator. JSON
// decoding yields float64 for numbers, so 1 arrives as 1.0.
func flagSet(data map[string]interface{}, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	default:
		return false
	}
}
