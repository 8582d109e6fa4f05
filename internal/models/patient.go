package models

import "time"

// Patient represents a row in the 'patients' table.
type Patient struct {
	ID               int64     `db:"id" json:"id"`
	UserID           *int64    `db:"user_id" json:"user_id,omitempty"`
	FullName         string    `db:"full_name" json:"full_name"`
	DoctorID         *int64    `db:"doctor_id" json:"doctor_id,omitempty"` // linked doctor
	MonitoringActive bool      `db:"monitoring_active" json:"monitoring_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Doctor represents a row in the 'doctors' table.
type Doctor struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
