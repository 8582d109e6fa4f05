package risk

import (
	"testing"
	"time"

	"motherguard/internal/models"
)

func TestEvaluatorsUnavailableOnEmptySignals(t *testing.T) {
	empty := &models.PatientSignals{}

	for _, ev := range DefaultEvaluators() {
		if s := ev.Evaluate(empty); s.Available {
			t.Fatalf("%s: expected unavailable on empty signals, got %.2f", ev.Factor(), s.Value)
		}
	}
}

func TestEvaluatorsScoresAreBounded(t *testing.T) {
	now := time.Now()
	loaded := &models.PatientSignals{
		Movements: []models.FMCRecord{
			{KickCount: 1, DurationMinutes: 120, RecordedAt: now},
		},
		Symptoms: []models.Symptom{
			{SymptomType: models.SymptomHeadache, Severity: 4, RecordedAt: now},
			{SymptomType: models.SymptomSwelling, Severity: 4, RecordedAt: now},
			{SymptomType: models.SymptomVision, Severity: 4, RecordedAt: now},
			{SymptomType: models.SymptomBreathing, Severity: 4, RecordedAt: now},
			{SymptomType: models.SymptomFever, Severity: 4, RecordedAt: now},
			{SymptomType: models.SymptomFatigue, Severity: 4, RecordedAt: now},
			{SymptomType: models.SymptomFatigue, Severity: 4, RecordedAt: now},
		},
		Labs: []models.LabResult{
			{TestName: models.LabSystolicBP, Value: 185, RecordedAt: now},
			{TestName: models.LabSystolicBP, Value: 170, RecordedAt: now},
			{TestName: models.LabFastingGlucose, Value: 200, RecordedAt: now},
			{TestName: models.LabHemoglobin, Value: 5.5, RecordedAt: now},
		},
	}

	for _, ev := range DefaultEvaluators() {
		s := ev.Evaluate(loaded)
		if !s.Available {
			t.Fatalf("%s: expected available score on loaded signals", ev.Factor())
		}
		if s.Value < 0 || s.Value > 1 {
			t.Fatalf("%s: score %.3f out of [0,1]", ev.Factor(), s.Value)
		}
	}
}

func TestGestationalDiabetesGradesWorstGlucose(t *testing.T) {
	tests := []struct {
		glucose float64
		want    float64
	}{
		{130, 0.90},
		{115, 0.70},
		{105, 0.50},
		{95, 0.30},
		{85, 0.10},
	}

	ev := gestationalDiabetesEvaluator{}
	for _, tt := range tests {
		signals := &models.PatientSignals{
			Labs: []models.LabResult{
				{TestName: models.LabFastingGlucose, Value: 80},
				{TestName: models.LabFastingGlucose, Value: tt.glucose},
			},
		}
		s := ev.Evaluate(signals)
		if !s.Available {
			t.Fatalf("glucose %.0f: expected available", tt.glucose)
		}
		if s.Value != tt.want {
			t.Fatalf("glucose %.0f: expected %.2f, got %.2f", tt.glucose, tt.want, s.Value)
		}
	}
}

func TestAnemiaIgnoresUnrelatedLabs(t *testing.T) {
	signals := &models.PatientSignals{
		Labs: []models.LabResult{
			{TestName: models.LabFastingGlucose, Value: 90},
		},
	}

	if s := (anemiaEvaluator{}).Evaluate(signals); s.Available {
		t.Fatalf("expected unavailable without hemoglobin labs, got %.2f", s.Value)
	}
}

func TestFetalGrowthLowMovementRateScoresHigh(t *testing.T) {
	signals := &models.PatientSignals{
		Movements: []models.FMCRecord{
			{KickCount: 2, DurationMinutes: 60},
			{KickCount: 1, DurationMinutes: 60},
		},
	}

	s := (fetalGrowthEvaluator{}).Evaluate(signals)
	if !s.Available {
		t.Fatal("expected available score")
	}
	if s.Value != 0.90 {
		t.Fatalf("expected 0.90 for 1.5 kicks/hour, got %.2f", s.Value)
	}
}

func TestFetalGrowthHealthyMovementRateScoresLow(t *testing.T) {
	signals := &models.PatientSignals{
		Movements: []models.FMCRecord{
			{KickCount: 40, DurationMinutes: 60},
		},
	}

	s := (fetalGrowthEvaluator{}).Evaluate(signals)
	if !s.Available || s.Value != 0.10 {
		t.Fatalf("expected 0.10 for 40 kicks/hour, got %+v", s)
	}
}

func TestPreeclampsiaUnavailableWithoutWarningSignals(t *testing.T) {
	// Nausea alone is not a preeclampsia warning symptom.
	signals := &models.PatientSignals{
		Symptoms: []models.Symptom{
			{SymptomType: models.SymptomNausea, Severity: 2},
		},
	}

	if s := (preeclampsiaEvaluator{}).Evaluate(signals); s.Available {
		t.Fatalf("expected unavailable, got %.2f", s.Value)
	}
}
