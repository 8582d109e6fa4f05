package risk

import (
	"motherguard/internal/models"
)

// Evaluator computes one factor's score from a patient's recent signals.
// Implementations must be pure: they read the signals, never each other's
// output, and return an unavailable score when the signal category they
// depend on has no data points in the window.
type Evaluator interface {
	Factor() models.Factor
	Evaluate(signals *models.PatientSignals) models.FactorScore
}

// DefaultEvaluators returns the built-in rule set, one evaluator per factor.
// The rules are deliberately simple threshold checks on recent symptom, lab
// and movement data; any alternative rule set satisfying the Evaluator
// contract can be swapped in without touching the aggregator.
func DefaultEvaluators() []Evaluator {
	return []Evaluator{
		preeclampsiaEvaluator{},
		gestationalDiabetesEvaluator{},
		anemiaEvaluator{},
		pretermBirthEvaluator{},
		fetalGrowthEvaluator{},
	}
}

func available(v float64) models.FactorScore {
	return models.FactorScore{Value: clamp(v), Available: true}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func labValues(signals *models.PatientSignals, testName string) []float64 {
	var values []float64
	for _, lab := range signals.Labs {
		if lab.TestName == testName {
			values = append(values, lab.Value)
		}
	}
	return values
}

// preeclampsiaEvaluator weighs warning symptoms (headache, swelling, vision
// changes, breathing difficulty) and elevated systolic blood pressure.
type preeclampsiaEvaluator struct{}

func (preeclampsiaEvaluator) Factor() models.Factor { return models.FactorPreeclampsia }

func (preeclampsiaEvaluator) Evaluate(signals *models.PatientSignals) models.FactorScore {
	warning := map[string]bool{
		models.SymptomHeadache:  true,
		models.SymptomSwelling:  true,
		models.SymptomVision:    true,
		models.SymptomBreathing: true,
	}

	score := 0.0
	seen := false
	for _, s := range signals.Symptoms {
		if !warning[s.SymptomType] {
			continue
		}
		seen = true
		// sev 1 -> 0.10 ... sev 4 -> 0.25
		score += 0.10 + 0.05*float64(s.Severity-1)
	}

	bp := labValues(signals, models.LabSystolicBP)
	for _, v := range bp {
		seen = true
		switch {
		case v >= 160:
			score += 0.50
		case v >= 140:
			score += 0.30
		case v >= 130:
			score += 0.15
		}
	}

	if !seen {
		return models.FactorScore{}
	}
	return available(score)
}

// gestationalDiabetesEvaluator grades the worst fasting glucose value in the
// window against ADA-style cut points.
type gestationalDiabetesEvaluator struct{}

func (gestationalDiabetesEvaluator) Factor() models.Factor { return models.FactorGestationalDiabetes }

func (gestationalDiabetesEvaluator) Evaluate(signals *models.PatientSignals) models.FactorScore {
	glucose := labValues(signals, models.LabFastingGlucose)
	if len(glucose) == 0 {
		return models.FactorScore{}
	}

	worst := glucose[0]
	for _, v := range glucose[1:] {
		if v > worst {
			worst = v
		}
	}

	switch {
	case worst >= 126:
		return available(0.90)
	case worst >= 110:
		return available(0.70)
	case worst >= 100:
		return available(0.50)
	case worst >= 92:
		return available(0.30)
	default:
		return available(0.10)
	}
}

// anemiaEvaluator grades the lowest hemoglobin value; repeated fatigue
// reports nudge the score upward.
type anemiaEvaluator struct{}

func (anemiaEvaluator) Factor() models.Factor { return models.FactorAnemia }

func (anemiaEvaluator) Evaluate(signals *models.PatientSignals) models.FactorScore {
	hb := labValues(signals, models.LabHemoglobin)
	if len(hb) == 0 {
		return models.FactorScore{}
	}

	lowest := hb[0]
	for _, v := range hb[1:] {
		if v < lowest {
			lowest = v
		}
	}

	var score float64
	switch {
	case lowest < 7.0:
		score = 0.95
	case lowest < 9.0:
		score = 0.75
	case lowest < 10.5:
		score = 0.50
	case lowest < 11.0:
		score = 0.30
	default:
		score = 0.10
	}

	for _, s := range signals.Symptoms {
		if s.SymptomType == models.SymptomFatigue {
			score += 0.05
		}
	}

	return available(score)
}

// pretermBirthEvaluator counts severe symptom reports; fever is weighted
// extra as an infection proxy.
type pretermBirthEvaluator struct{}

func (pretermBirthEvaluator) Factor() models.Factor { return models.FactorPretermBirth }

func (pretermBirthEvaluator) Evaluate(signals *models.PatientSignals) models.FactorScore {
	if len(signals.Symptoms) == 0 {
		return models.FactorScore{}
	}

	score := 0.10
	for _, s := range signals.Symptoms {
		if s.Severity >= 3 {
			score += 0.20
		}
		if s.SymptomType == models.SymptomFever {
			score += 0.20
		}
	}

	return available(score)
}

// fetalGrowthEvaluator grades the fetal movement rate (kicks per hour)
// aggregated over the window's counting sessions.
type fetalGrowthEvaluator struct{}

func (fetalGrowthEvaluator) Factor() models.Factor { return models.FactorFetalGrowth }

func (fetalGrowthEvaluator) Evaluate(signals *models.PatientSignals) models.FactorScore {
	totalKicks := 0
	totalMinutes := 0
	for _, m := range signals.Movements {
		totalKicks += m.KickCount
		totalMinutes += m.DurationMinutes
	}
	if len(signals.Movements) == 0 || totalMinutes == 0 {
		return models.FactorScore{}
	}

	perHour := float64(totalKicks) / float64(totalMinutes) * 60

	switch {
	case perHour >= 30:
		return available(0.10)
	case perHour >= 20:
		return available(0.25)
	case perHour >= 10:
		return available(0.45)
	case perHour >= 6:
		return available(0.70)
	default:
		return available(0.90)
	}
}
