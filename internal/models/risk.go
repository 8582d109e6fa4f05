package models

import "time"

// RiskLevel is the overall classification of a risk assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Factor identifies one of the five tracked medical risk categories.
type Factor string

const (
	FactorPreeclampsia        Factor = "preeclampsia"
	FactorGestationalDiabetes Factor = "gestational_diabetes"
	FactorAnemia              Factor = "anemia"
	FactorPretermBirth        Factor = "preterm_birth"
	FactorFetalGrowth         Factor = "fetal_growth"
)

// Factors lists every tracked factor in a stable order.
var Factors = []Factor{
	FactorPreeclampsia,
	FactorGestationalDiabetes,
	FactorAnemia,
	FactorPretermBirth,
	FactorFetalGrowth,
}

// FactorScore is one factor's computed score. A score is only meaningful when
// Available is true; an unavailable score means the patient had no data points
// in the relevant signal category and must be excluded from aggregation.
type FactorScore struct {
	Value     float64
	Available bool
}

// RiskAssessment represents a row in the 'risk_assessments' table. Assessments
// are immutable once stored; newer assessments supersede older ones.
type RiskAssessment struct {
	ID                  int64     `db:"id" json:"id"`
	PatientID           int64     `db:"patient_id" json:"patient_id"`
	PregnancyID         *int64    `db:"pregnancy_id" json:"pregnancy_id,omitempty"`
	PreeclampsiaRisk    *float64  `db:"preeclampsia_risk" json:"preeclampsia_risk"`
	GestDiabetesRisk    *float64  `db:"gestational_diabetes_risk" json:"gestational_diabetes_risk"`
	AnemiaRisk          *float64  `db:"anemia_risk" json:"anemia_risk"`
	PretermBirthRisk    *float64  `db:"preterm_birth_risk" json:"preterm_birth_risk"`
	FetalGrowthRisk     *float64  `db:"fetal_growth_restriction_risk" json:"fetal_growth_restriction_risk"`
	OverallRiskLevel    RiskLevel `db:"overall_risk_level" json:"overall_risk_level"`
	Notes               *string   `db:"notes" json:"notes,omitempty"`
	CalculatedAt        time.Time `db:"calculated_at" json:"calculated_at"`
}

// FactorScoreFor returns the stored score for a factor.
func (a *RiskAssessment) FactorScoreFor(f Factor) FactorScore {
	var p *float64
	switch f {
	case FactorPreeclampsia:
		p = a.PreeclampsiaRisk
	case FactorGestationalDiabetes:
		p = a.GestDiabetesRisk
	case FactorAnemia:
		p = a.AnemiaRisk
	case FactorPretermBirth:
		p = a.PretermBirthRisk
	case FactorFetalGrowth:
		p = a.FetalGrowthRisk
	}
	if p == nil {
		return FactorScore{}
	}
	return FactorScore{Value: *p, Available: true}
}

// SetFactorScore writes one factor score onto the assessment row. Unavailable
// scores are stored as NULL.
func (a *RiskAssessment) SetFactorScore(f Factor, s FactorScore) {
	var p *float64
	if s.Available {
		v := s.Value
		p = &v
	}
	switch f {
	case FactorPreeclampsia:
		a.PreeclampsiaRisk = p
	case FactorGestationalDiabetes:
		a.GestDiabetesRisk = p
	case FactorAnemia:
		a.AnemiaRisk = p
	case FactorPretermBirth:
		a.PretermBirthRisk = p
	case FactorFetalGrowth:
		a.FetalGrowthRisk = p
	}
}

// Alert is the doctor-facing projection of a patient's latest assessment.
type Alert struct {
	RiskAssessment
	PatientName string `db:"patient_name" json:"patient_name"`
}
