package repository

import (
	"context"
	"time"

	"motherguard/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type ObservationRepository interface {
	SaveFMCRecord(ctx context.Context, rec *models.FMCRecord) error
	GetFMCRecords(patientID int64, since time.Time) ([]models.FMCRecord, error)
	GetDailyKickTotal(patientID int64, day time.Time) (int, error)
	SaveSymptom(symptom *models.Symptom) error
	GetPatientSignals(ctx context.Context, patientID int64, since time.Time) (*models.PatientSignals, error)
}

type observationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewObservationRepository(db *sqlx.DB, logger *zap.Logger) ObservationRepository {
	return &observationRepository{db: db, logger: logger}
}

func (r *observationRepository) SaveFMCRecord(ctx context.Context, rec *models.FMCRecord) error {
	query := `INSERT INTO fmc_records (patient_id, pregnancy_id, kick_count, duration_minutes, notes, recorded_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowxContext(ctx, query, rec.PatientID, rec.PregnancyID, rec.KickCount,
		rec.DurationMinutes, rec.Notes, rec.RecordedAt).Scan(&rec.ID)
}

func (r *observationRepository) GetFMCRecords(patientID int64, since time.Time) ([]models.FMCRecord, error) {
	var records []models.FMCRecord
	query := `SELECT id, patient_id, pregnancy_id, kick_count, duration_minutes, notes, recorded_at
	          FROM fmc_records WHERE patient_id = $1 AND recorded_at >= $2 ORDER BY recorded_at DESC`
	if err := r.db.Select(&records, query, patientID, since); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *observationRepository) GetDailyKickTotal(patientID int64, day time.Time) (int, error) {
	var total int
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	query := `SELECT COALESCE(SUM(kick_count), 0) FROM fmc_records WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3`
	if err := r.db.Get(&total, query, patientID, start, start.Add(24*time.Hour)); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *observationRepository) SaveSymptom(symptom *models.Symptom) error {
	query := `INSERT INTO symptoms (patient_id, pregnancy_id, symptom_type, severity, notes, recorded_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowx(query, symptom.PatientID, symptom.PregnancyID, symptom.SymptomType,
		symptom.Severity, symptom.Notes, symptom.RecordedAt).Scan(&symptom.ID)
}

// GetPatientSignals loads every raw signal category for one patient over the
// lookback window. The three queries run against a consistent-enough snapshot
// for rule evaluation; no transaction is needed because evaluators only read.
func (r *observationRepository) GetPatientSignals(ctx context.Context, patientID int64, since time.Time) (*models.PatientSignals, error) {
	signals := &models.PatientSignals{}

	movementsQuery := `SELECT id, patient_id, pregnancy_id, kick_count, duration_minutes, notes, recorded_at
	                   FROM fmc_records WHERE patient_id = $1 AND recorded_at >= $2 ORDER BY recorded_at DESC`
	if err := r.db.SelectContext(ctx, &signals.Movements, movementsQuery, patientID, since); err != nil {
		return nil, err
	}

	symptomsQuery := `SELECT id, patient_id, pregnancy_id, symptom_type, severity, notes, recorded_at
	                  FROM symptoms WHERE patient_id = $1 AND recorded_at >= $2 ORDER BY recorded_at DESC`
	if err := r.db.SelectContext(ctx, &signals.Symptoms, symptomsQuery, patientID, since); err != nil {
		return nil, err
	}

	labsQuery := `SELECT id, patient_id, test_name, result_value, uploaded_at
	              FROM lab_results WHERE patient_id = $1 AND uploaded_at >= $2 ORDER BY uploaded_at DESC`
	if err := r.db.SelectContext(ctx, &signals.Labs, labsQuery, patientID, since); err != nil {
		return nil, err
	}

	return signals, nil
}
