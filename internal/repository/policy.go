package repository

import (
	"context"

	"motherguard/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PolicyRepository persists the single current ThresholdPolicy snapshot.
// The 'risk_policies' table holds exactly one row.
type PolicyRepository interface {
	GetPolicy(ctx context.Context) (*models.ThresholdPolicy, error)
	ReplacePolicy(ctx context.Context, p *models.ThresholdPolicy) error
}

type policyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPolicyRepository(db *sqlx.DB, logger *zap.Logger) PolicyRepository {
	return &policyRepository{db: db, logger: logger}
}

func (r *policyRepository) GetPolicy(ctx context.Context) (*models.ThresholdPolicy, error) {
	var p models.ThresholdPolicy
	query := `SELECT preeclampsia, gestational_diabetes, anemia, preterm_birth, fetal_growth,
	                 auto_alert_enabled, daily_scan_enabled, updated_at
	          FROM risk_policies WHERE id = 1`
	if err := r.db.GetContext(ctx, &p, query); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplacePolicy overwrites the whole snapshot in one statement, so two racing
// administrators resolve as last-writer-wins without torn fields.
func (r *policyRepository) ReplacePolicy(ctx context.Context, p *models.ThresholdPolicy) error {
	query := `UPDATE risk_policies
	          SET preeclampsia = $1, gestational_diabetes = $2, anemia = $3, preterm_birth = $4,
	              fetal_growth = $5, auto_alert_enabled = $6, daily_scan_enabled = $7, updated_at = NOW()
	          WHERE id = 1
	          RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query, p.Preeclampsia, p.GestationalDiabetes, p.Anemia,
		p.PretermBirth, p.FetalGrowth, p.AutoAlertEnabled, p.DailyScanEnabled).Scan(&p.UpdatedAt)
}
