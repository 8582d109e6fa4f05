package repository

import (
	"motherguard/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type PatientRepository interface {
	GetPatientByID(id int64) (*models.Patient, error)
	GetPatientByUserID(userID int64) (*models.Patient, error)
	GetDoctorByUserID(userID int64) (*models.Doctor, error)
	GetMonitoredPatientIDs() ([]int64, error)
	GetPatientsByDoctor(doctorID int64) ([]*models.Patient, error)
	CountPatients() (int, error)
}

type patientRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPatientRepository(db *sqlx.DB, logger *zap.Logger) PatientRepository {
	return &patientRepository{db: db, logger: logger}
}

func (r *patientRepository) GetPatientByID(id int64) (*models.Patient, error) {
	var p models.Patient
	query := `SELECT id, user_id, full_name, doctor_id, monitoring_active, created_at FROM patients WHERE id = $1`
	if err := r.db.Get(&p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) GetPatientByUserID(userID int64) (*models.Patient, error) {
	var p models.Patient
	query := `SELECT id, user_id, full_name, doctor_id, monitoring_active, created_at FROM patients WHERE user_id = $1`
	if err := r.db.Get(&p, query, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) GetDoctorByUserID(userID int64) (*models.Doctor, error) {
	var d models.Doctor
	query := `SELECT id, user_id, full_name, specialty, created_at FROM doctors WHERE user_id = $1`
	if err := r.db.Get(&d, query, userID); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetMonitoredPatientIDs returns the identifiers of every patient included in
// the daily scan population.
func (r *patientRepository) GetMonitoredPatientIDs() ([]int64, error) {
	var ids []int64
	query := `SELECT id FROM patients WHERE monitoring_active = TRUE ORDER BY id`
	if err := r.db.Select(&ids, query); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *patientRepository) GetPatientsByDoctor(doctorID int64) ([]*models.Patient, error) {
	var patients []*models.Patient
	query := `SELECT id, user_id, full_name, doctor_id, monitoring_active, created_at FROM patients WHERE doctor_id = $1 ORDER BY full_name`
	if err := r.db.Select(&patients, query, doctorID); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) CountPatients() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM patients`); err != nil {
		return 0, err
	}
	return count, nil
}
