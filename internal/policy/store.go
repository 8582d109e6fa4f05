package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"motherguard/internal/models"
	"motherguard/internal/repository"

	"go.uber.org/zap"
)

// ErrUnavailable is returned when the policy snapshot cannot be read. Callers
// that depend on the policy must treat this as retryable and fail closed —
// defaults are never substituted silently.
var ErrUnavailable = errors.New("threshold policy unavailable")

// ValidationError reports the first policy field that failed validation. The
// whole update is rejected; no field is applied.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid threshold for %s: %d (must be 10-100 in steps of 5)", e.Field, e.Value)
}

// Update carries a partial policy change. Nil fields are left untouched.
type Update struct {
	Preeclampsia        *int  `json:"preeclampsia"`
	GestationalDiabetes *int  `json:"gestational_diabetes"`
	Anemia              *int  `json:"anemia"`
	PretermBirth        *int  `json:"preterm_birth"`
	FetalGrowth         *int  `json:"fetal_growth"`
	AutoAlertEnabled    *bool `json:"auto_alert_enabled"`
	DailyScanEnabled    *bool `json:"daily_scan_enabled"`
}

// Store owns the administrator-configured threshold policy. Reads always see
// the latest committed snapshot; updates replace the snapshot as a whole under
// a single writer lock, so concurrent administrator edits cannot interleave
// field-by-field.
type Store struct {
	repo   repository.PolicyRepository
	logger *zap.Logger

	mu sync.Mutex // serializes read-modify-write update cycles
}

func NewStore(repo repository.PolicyRepository, logger *zap.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Get returns the current policy snapshot.
func (s *Store) Get(ctx context.Context) (*models.ThresholdPolicy, error) {
	p, err := s.repo.GetPolicy(ctx)
	if err != nil {
		s.logger.Error("Failed to read threshold policy", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p, nil
}

// Apply validates and applies a partial update, returning the new snapshot.
// Any out-of-range value rejects the entire update and names the field.
func (s *Store) Apply(ctx context.Context, upd Update) (*models.ThresholdPolicy, error) {
	if err := validate(upd); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.GetPolicy(ctx)
	if err != nil {
		s.logger.Error("Failed to read threshold policy for update", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	next := *current
	if upd.Preeclampsia != nil {
		next.Preeclampsia = *upd.Preeclampsia
	}
	if upd.GestationalDiabetes != nil {
		next.GestationalDiabetes = *upd.GestationalDiabetes
	}
	if upd.Anemia != nil {
		next.Anemia = *upd.Anemia
	}
	if upd.PretermBirth != nil {
		next.PretermBirth = *upd.PretermBirth
	}
	if upd.FetalGrowth != nil {
		next.FetalGrowth = *upd.FetalGrowth
	}
	if upd.AutoAlertEnabled != nil {
		next.AutoAlertEnabled = *upd.AutoAlertEnabled
	}
	if upd.DailyScanEnabled != nil {
		next.DailyScanEnabled = *upd.DailyScanEnabled
	}

	if err := s.repo.ReplacePolicy(ctx, &next); err != nil {
		s.logger.Error("Failed to replace threshold policy", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Info("Threshold policy updated",
		zap.Int("preeclampsia", next.Preeclampsia),
		zap.Int("gestational_diabetes", next.GestationalDiabetes),
		zap.Int("anemia", next.Anemia),
		zap.Int("preterm_birth", next.PretermBirth),
		zap.Int("fetal_growth", next.FetalGrowth),
		zap.Bool("auto_alert", next.AutoAlertEnabled),
		zap.Bool("daily_scan", next.DailyScanEnabled))

	return &next, nil
}

func validate(upd Update) error {
	fields := []struct {
		name  string
		value *int
	}{
		{string(models.FactorPreeclampsia), upd.Preeclampsia},
		{string(models.FactorGestationalDiabetes), upd.GestationalDiabetes},
		{string(models.FactorAnemia), upd.Anemia},
		{string(models.FactorPretermBirth), upd.PretermBirth},
		{string(models.FactorFetalGrowth), upd.FetalGrowth},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := *f.value
		if v < 10 || v > 100 || v%5 != 0 {
			return &ValidationError{Field: f.name, Value: v}
		}
	}
	return nil
}
