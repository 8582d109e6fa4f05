package models

import "time"

// FMCRecord represents a fetal movement counting record stored in the
// 'fmc_records' table. One record is produced per completed kick-counter
// session and is never modified afterwards.
type FMCRecord struct {
	ID              int64     `db:"id" json:"id"`
	PatientID       int64     `db:"patient_id" json:"patient_id"`
	PregnancyID     *int64    `db:"pregnancy_id" json:"pregnancy_id,omitempty"`
	KickCount       int       `db:"kick_count" json:"kick_count"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	RecordedAt      time.Time `db:"recorded_at" json:"recorded_at"`
}

// Symptom represents a patient-reported symptom stored in the 'symptoms' table.
type Symptom struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	PregnancyID *int64    `db:"pregnancy_id" json:"pregnancy_id,omitempty"`
	SymptomType string    `db:"symptom_type" json:"symptom_type"`
	Severity    int       `db:"severity" json:"severity"` // 1 = mild .. 4 = very severe
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
}

// Known symptom types reported through the patient app.
const (
	SymptomHeadache  = "headache"
	SymptomNausea    = "nausea"
	SymptomFever     = "fever"
	SymptomFatigue   = "fatigue"
	SymptomSwelling  = "swelling"
	SymptomBreathing = "breathing"
	SymptomVision    = "vision"
)

// LabResult represents a numeric lab value stored in the 'lab_results' table.
type LabResult struct {
	ID         int64     `db:"id" json:"id"`
	PatientID  int64     `db:"patient_id" json:"patient_id"`
	TestName   string    `db:"test_name" json:"test_name"`
	Value      float64   `db:"result_value" json:"result_value"`
	RecordedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Lab test names the evaluators understand.
const (
	LabHemoglobin     = "hemoglobin"          // g/dL
	LabFastingGlucose = "glucose_fasting"     // mg/dL
	LabSystolicBP     = "blood_pressure_systolic" // mmHg
)

// PatientSignals bundles the recent raw signals for one patient over the
// lookback window. Evaluators read these lists and nothing else.
type PatientSignals struct {
	Movements []FMCRecord
	Symptoms  []Symptom
	Labs      []LabResult
}
