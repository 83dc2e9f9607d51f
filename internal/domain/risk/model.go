package risk

import "fmt"

// Assessment is the scoring service's verdict for one patient.
type Assessment struct {
	DeteriorationProbability float64 `json:"deterioration_probability"`
	RiskLevel                string  `json:"risk_level"`
	Priority                 string  `json:"priority"`
	Urgency                  string  `json:"urgency"`
	Confidence               float64 `json:"confidence"`
}

// FeatureContribution explains one feature's share of a prediction.
type FeatureContribution struct {
	Feature      string  `json:"feature"`
	Contribution float64 `json:"contribution"`
	ClinicalName string  `json:"clinical_name"`
}

// Result is a complete risk prediction for one patient as returned by the
// scoring service and stored in the prediction cache.
type Result struct {
	PatientID            string                `json:"patient_id"`
	RiskAssessment       Assessment            `json:"risk_assessment"`
	FeatureContributions []FeatureContribution `json:"feature_contributions,omitempty"`
}

// Validate checks that a decoded Result is structurally usable before it is
// cached or rendered. The front-end used to trust the payload blindly and
// render NaNs on malformed responses; failing early with a typed error is
// the deliberate fix for that.
func (r *Result) Validate() error {
	if r.PatientID == "" {
		return fmt.Errorf("missing patient_id")
	}
	a := r.RiskAssessment
	if a.DeteriorationProbability < 0 || a.DeteriorationProbability > 1 {
		return fmt.Errorf("deterioration_probability %v out of [0,1]", a.DeteriorationProbability)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", a.Confidence)
	}
	switch a.RiskLevel {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("unknown risk_level %q", a.RiskLevel)
	}
	return nil
}

// FeatureImportance is one entry of the model's global feature ranking.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelInfo describes the deployed scoring model for the analytics view.
type ModelInfo struct {
	ModelName         string              `json:"model_name,omitempty"`
	ModelVersion      string              `json:"model_version,omitempty"`
	FeatureImportance []FeatureImportance `json:"feature_importance"`
	ClinicalMapping   map[string]string   `json:"clinical_mapping"`
	ModelPerformance  map[string]float64  `json:"model_performance"`
}

// CohortStats aggregates the cache for the dashboard summary cards.
type CohortStats struct {
	TotalPatients int     `json:"total_patients"`
	Predicted     int     `json:"predicted"`
	HighRisk      int     `json:"high_risk"`
	MediumRisk    int     `json:"medium_risk"`
	LowRisk       int     `json:"low_risk"`
	AverageRisk   float64 `json:"average_risk"`
}
