package repository

import (
	"context"
	"time"

	"motherguard/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type AssessmentRepository interface {
	SaveAssessment(ctx context.Context, a *models.RiskAssessment) error
	GetAssessments(patientID int64) ([]*models.RiskAssessment, error)
	GetLatestAssessment(patientID int64) (*models.RiskAssessment, error)
	GetAlertsForDoctor(doctorID int64) ([]*models.Alert, error)
	CountLatestByLevel() (map[models.RiskLevel]int, error)
	CountAssessmentsSince(since time.Time) (int, error)
}

type assessmentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAssessmentRepository(db *sqlx.DB, logger *zap.Logger) AssessmentRepository {
	return &assessmentRepository{db: db, logger: logger}
}

const assessmentColumns = `id, patient_id, pregnancy_id, preeclampsia_risk, gestational_diabetes_risk,
	anemia_risk, preterm_birth_risk, fetal_growth_restriction_risk, overall_risk_level, notes, calculated_at`

// SaveAssessment inserts a new assessment row. Prior assessments are never
// updated; the newest calculated_at wins when the latest is requested.
func (r *assessmentRepository) SaveAssessment(ctx context.Context, a *models.RiskAssessment) error {
	query := `INSERT INTO risk_assessments (patient_id, pregnancy_id, preeclampsia_risk, gestational_diabetes_risk,
	              anemia_risk, preterm_birth_risk, fetal_growth_restriction_risk, overall_risk_level, notes, calculated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRowxContext(ctx, query, a.PatientID, a.PregnancyID, a.PreeclampsiaRisk, a.GestDiabetesRisk,
		a.AnemiaRisk, a.PretermBirthRisk, a.FetalGrowthRisk, a.OverallRiskLevel, a.Notes, a.CalculatedAt).Scan(&a.ID)
}

func (r *assessmentRepository) GetAssessments(patientID int64) ([]*models.RiskAssessment, error) {
	var assessments []*models.RiskAssessment
	query := `SELECT ` + assessmentColumns + ` FROM risk_assessments WHERE patient_id = $1 ORDER BY calculated_at DESC`
	if err := r.db.Select(&assessments, query, patientID); err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepository) GetLatestAssessment(patientID int64) (*models.RiskAssessment, error) {
	var a models.RiskAssessment
	query := `SELECT ` + assessmentColumns + ` FROM risk_assessments WHERE patient_id = $1 ORDER BY calculated_at DESC LIMIT 1`
	if err := r.db.Get(&a, query, patientID); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAlertsForDoctor projects each linked patient's most recent assessment and
// keeps the high/critical ones, critical first, then most recent first.
func (r *assessmentRepository) GetAlertsForDoctor(doctorID int64) ([]*models.Alert, error) {
	var alerts []*models.Alert
	query := `
		SELECT * FROM (
			SELECT DISTINCT ON (a.patient_id)
				a.id, a.patient_id, a.pregnancy_id, a.preeclampsia_risk, a.gestational_diabetes_risk,
				a.anemia_risk, a.preterm_birth_risk, a.fetal_growth_restriction_risk,
				a.overall_risk_level, a.notes, a.calculated_at,
				p.full_name AS patient_name
			FROM risk_assessments a
			JOIN patients p ON p.id = a.patient_id
			WHERE p.doctor_id = $1
			ORDER BY a.patient_id, a.calculated_at DESC
		) latest
		WHERE overall_risk_level IN ('high', 'critical')
		ORDER BY CASE overall_risk_level WHEN 'critical' THEN 0 ELSE 1 END, calculated_at DESC
	`
	if err := r.db.Select(&alerts, query, doctorID); err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountLatestByLevel counts patients per overall level using each patient's
// latest assessment only.
func (r *assessmentRepository) CountLatestByLevel() (map[models.RiskLevel]int, error) {
	rows, err := r.db.Queryx(`
		SELECT overall_risk_level, COUNT(*) FROM (
			SELECT DISTINCT ON (patient_id) overall_risk_level
			FROM risk_assessments
			ORDER BY patient_id, calculated_at DESC
		) latest
		GROUP BY overall_risk_level
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.RiskLevel]int)
	for rows.Next() {
		var level models.RiskLevel
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			r.logger.Error("Failed to scan level count", zap.Error(err))
			continue
		}
		counts[level] = count
	}
	return counts, rows.Err()
}

func (r *assessmentRepository) CountAssessmentsSince(since time.Time) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM risk_assessments WHERE calculated_at >= $1`, since); err != nil {
		return 0, err
	}
	return count, nil
}
