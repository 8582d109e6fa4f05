package models

import "time"

// Default alert thresholds, in percent.
const (
	DefaultPreeclampsiaThreshold        = 70
	DefaultGestationalDiabetesThreshold = 65
	DefaultAnemiaThreshold              = 60
	DefaultPretermBirthThreshold        = 75
	DefaultFetalGrowthThreshold         = 70
)

// ThresholdPolicy is the administrator-configured alert policy stored as a
// single row in the 'risk_policies' table. Thresholds are percentages in
// [10,100], multiples of 5. The policy is always replaced as a whole snapshot.
type ThresholdPolicy struct {
	Preeclampsia        int       `db:"preeclampsia" json:"preeclampsia"`
	GestationalDiabetes int       `db:"gestational_diabetes" json:"gestational_diabetes"`
	Anemia              int       `db:"anemia" json:"anemia"`
	PretermBirth        int       `db:"preterm_birth" json:"preterm_birth"`
	FetalGrowth         int       `db:"fetal_growth" json:"fetal_growth"`
	AutoAlertEnabled    bool      `db:"auto_alert_enabled" json:"auto_alert_enabled"`
	DailyScanEnabled    bool      `db:"daily_scan_enabled" json:"daily_scan_enabled"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultThresholdPolicy returns the policy shipped before any administrator
// has touched the settings.
func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Preeclampsia:        DefaultPreeclampsiaThreshold,
		GestationalDiabetes: DefaultGestationalDiabetesThreshold,
		Anemia:              DefaultAnemiaThreshold,
		PretermBirth:        DefaultPretermBirthThreshold,
		FetalGrowth:         DefaultFetalGrowthThreshold,
		AutoAlertEnabled:    true,
		DailyScanEnabled:    true,
	}
}

// ThresholdFor returns the configured percentage threshold for a factor.
func (p ThresholdPolicy) ThresholdFor(f Factor) int {
	switch f {
	case FactorPreeclampsia:
		return p.Preeclampsia
	case FactorGestationalDiabetes:
		return p.GestationalDiabetes
	case FactorAnemia:
		return p.Anemia
	case FactorPretermBirth:
		return p.PretermBirth
	case FactorFetalGrowth:
		return p.FetalGrowth
	}
	return 100
}
