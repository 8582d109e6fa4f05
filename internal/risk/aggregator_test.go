package risk

import (
	"testing"

	"motherguard/internal/models"
)

func defaultPolicy() *models.ThresholdPolicy {
	p := models.DefaultThresholdPolicy()
	return &p
}

func score(v float64) models.FactorScore {
	return models.FactorScore{Value: v, Available: true}
}

func unavailable() models.FactorScore {
	return models.FactorScore{}
}

func TestAggregateSingleExceederIsHigh(t *testing.T) {
	// preeclampsia 0.75 >= 0.70 threshold, everything else below
	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        score(0.75),
		models.FactorGestationalDiabetes: score(0.50),
		models.FactorAnemia:              score(0.30),
		models.FactorPretermBirth:        score(0.40),
		models.FactorFetalGrowth:         score(0.20),
	}

	if level := Aggregate(scores, defaultPolicy()); level != models.RiskHigh {
		t.Fatalf("expected high, got %s", level)
	}
}

func TestAggregateCeilingIsCriticalRegardlessOfThresholds(t *testing.T) {
	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        score(0.95),
		models.FactorGestationalDiabetes: score(0.10),
		models.FactorAnemia:              unavailable(),
		models.FactorPretermBirth:        score(0.10),
		models.FactorFetalGrowth:         score(0.10),
	}

	// Even with every threshold maxed out, the 0.90 ceiling escalates.
	policy := defaultPolicy()
	policy.Preeclampsia = 100
	policy.GestationalDiabetes = 100
	policy.Anemia = 100
	policy.PretermBirth = 100
	policy.FetalGrowth = 100

	if level := Aggregate(scores, policy); level != models.RiskCritical {
		t.Fatalf("expected critical, got %s", level)
	}
}

func TestAggregateTwoExceedersIsCritical(t *testing.T) {
	// preeclampsia 0.72 >= 0.70 and anemia 0.65 >= 0.60, neither at ceiling
	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        score(0.72),
		models.FactorGestationalDiabetes: score(0.10),
		models.FactorAnemia:              score(0.65),
		models.FactorPretermBirth:        score(0.10),
		models.FactorFetalGrowth:         score(0.10),
	}

	if level := Aggregate(scores, defaultPolicy()); level != models.RiskCritical {
		t.Fatalf("expected critical, got %s", level)
	}
}

func TestAggregateModerate(t *testing.T) {
	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        score(0.45),
		models.FactorGestationalDiabetes: score(0.10),
		models.FactorAnemia:              score(0.10),
		models.FactorPretermBirth:        score(0.10),
		models.FactorFetalGrowth:         score(0.10),
	}

	if level := Aggregate(scores, defaultPolicy()); level != models.RiskModerate {
		t.Fatalf("expected moderate, got %s", level)
	}
}

func TestAggregateLow(t *testing.T) {
	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        score(0.10),
		models.FactorGestationalDiabetes: score(0.20),
		models.FactorAnemia:              score(0.30),
		models.FactorPretermBirth:        score(0.15),
		models.FactorFetalGrowth:         score(0.05),
	}

	if level := Aggregate(scores, defaultPolicy()); level != models.RiskLow {
		t.Fatalf("expected low, got %s", level)
	}
}

func TestAggregateAllUnavailableIsLow(t *testing.T) {
	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        unavailable(),
		models.FactorGestationalDiabetes: unavailable(),
		models.FactorAnemia:              unavailable(),
		models.FactorPretermBirth:        unavailable(),
		models.FactorFetalGrowth:         unavailable(),
	}

	if level := Aggregate(scores, defaultPolicy()); level != models.RiskLow {
		t.Fatalf("expected low for all-unavailable input, got %s", level)
	}
}

func TestAggregateUnavailableIsNotZero(t *testing.T) {
	// An unavailable factor must be excluded, not counted as a 0.0 score:
	// with one exceeder present the result is high either way, but an
	// unavailable factor at a 10% threshold must not count as an exceeder.
	policy := defaultPolicy()
	policy.Anemia = 10

	scores := map[models.Factor]models.FactorScore{
		models.FactorPreeclampsia:        score(0.75),
		models.FactorGestationalDiabetes: score(0.10),
		models.FactorAnemia:              unavailable(),
		models.FactorPretermBirth:        score(0.10),
		models.FactorFetalGrowth:         score(0.10),
	}

	if level := Aggregate(scores, policy); level != models.RiskHigh {
		t.Fatalf("expected high (one exceeder), got %s", level)
	}
}

func TestAggregateScenarios(t *testing.T) {
	tests := []struct {
		name   string
		scores map[models.Factor]models.FactorScore
		want   models.RiskLevel
	}{
		{
			name: "single borderline exceeder",
			scores: map[models.Factor]models.FactorScore{
				models.FactorPreeclampsia:        score(0.75),
				models.FactorGestationalDiabetes: score(0.50),
				models.FactorAnemia:              score(0.30),
				models.FactorPretermBirth:        score(0.40),
				models.FactorFetalGrowth:         score(0.20),
			},
			want: models.RiskHigh,
		},
		{
			name: "near-certain single factor",
			scores: map[models.Factor]models.FactorScore{
				models.FactorPreeclampsia:        score(0.95),
				models.FactorGestationalDiabetes: score(0.10),
				models.FactorAnemia:              unavailable(),
				models.FactorPretermBirth:        score(0.10),
				models.FactorFetalGrowth:         score(0.10),
			},
			want: models.RiskCritical,
		},
		{
			name: "threshold boundary counts as exceeded",
			scores: map[models.Factor]models.FactorScore{
				models.FactorPreeclampsia:        score(0.70),
				models.FactorGestationalDiabetes: score(0.10),
				models.FactorAnemia:              score(0.10),
				models.FactorPretermBirth:        score(0.10),
				models.FactorFetalGrowth:         score(0.10),
			},
			want: models.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.scores, defaultPolicy()); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
