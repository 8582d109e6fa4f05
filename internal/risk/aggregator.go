package risk

import (
	"motherguard/internal/models"
)

// criticalCeiling is a safety floor: any single factor at or above this score
// escalates to critical no matter how the administrator tuned the thresholds.
const criticalCeiling = 0.90

// moderateFloor is the score at which a below-threshold factor still warrants
// a moderate classification.
const moderateFloor = 0.40

// Aggregate combines the five factor scores into one overall level under the
// given policy. Unavailable factors are excluded entirely; they are never
// treated as zero. With no available factors at all the result is low — the
// system has no basis to alert.
//
// Escalation rules:
//   - critical: any available score >= 0.90, or two or more distinct factors
//     exceed their configured thresholds
//   - high:     exactly one factor exceeds its configured threshold
//   - moderate: no factor exceeds threshold but some score >= 0.40
//   - low:      otherwise
func Aggregate(scores map[models.Factor]models.FactorScore, policy *models.ThresholdPolicy) models.RiskLevel {
	exceeders := 0
	ceilingHit := false
	maxScore := 0.0

	for factor, score := range scores {
		if !score.Available {
			continue
		}
		if score.Value >= criticalCeiling {
			ceilingHit = true
		}
		if score.Value*100 >= float64(policy.ThresholdFor(factor)) {
			exceeders++
		}
		if score.Value > maxScore {
			maxScore = score.Value
		}
	}

	switch {
	case ceilingHit || exceeders >= 2:
		return models.RiskCritical
	case exceeders == 1:
		return models.RiskHigh
	case maxScore >= moderateFloor:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}
