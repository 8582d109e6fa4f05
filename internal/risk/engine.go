package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motherguard/internal/models"
	"motherguard/internal/policy"

	"go.uber.org/zap"
)

// ErrSignalsUnavailable is returned when the patient's raw signals cannot be
// queried. The assessment for that patient is aborted and the caller may
// retry; no assessment row is written.
var ErrSignalsUnavailable = errors.New("patient signals unavailable")

// ErrDailyScanDisabled is returned by RunDailyScan when the administrator has
// switched the daily scan off.
var ErrDailyScanDisabled = errors.New("daily scan is disabled by policy")

// SignalSource supplies the recent raw signals for one patient.
type SignalSource interface {
	GetPatientSignals(ctx context.Context, patientID int64, since time.Time) (*models.PatientSignals, error)
}

// AssessmentSink persists computed assessments.
type AssessmentSink interface {
	SaveAssessment(ctx context.Context, a *models.RiskAssessment) error
}

// ScanPopulation lists the patients included in the daily scan.
type ScanPopulation interface {
	GetMonitoredPatientIDs() ([]int64, error)
}

// PolicyProvider supplies the current threshold policy snapshot.
type PolicyProvider interface {
	Get(ctx context.Context) (*models.ThresholdPolicy, error)
}

// Notifier pushes doctor-facing notifications for alerting assessments.
// Implementations must tolerate being called concurrently; a nil Notifier
// disables notifications.
type Notifier interface {
	NotifyAssessment(ctx context.Context, a *models.RiskAssessment) error
}

// ScanResult reports the outcome of a batch scan.
type ScanResult struct {
	Assessed int     `json:"assessed"`
	Failed   []int64 `json:"failed_patient_ids,omitempty"`
}

// Engine evaluates the five risk factors for a patient, aggregates them under
// the current threshold policy and persists the resulting assessment.
type Engine struct {
	signals     SignalSource
	assessments AssessmentSink
	population  ScanPopulation
	policy      PolicyProvider
	notifier    Notifier
	evaluators  []Evaluator
	lookback    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewEngine(
	signals SignalSource,
	assessments AssessmentSink,
	population ScanPopulation,
	policyProvider PolicyProvider,
	notifier Notifier,
	lookback time.Duration,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		signals:     signals,
		assessments: assessments,
		population:  population,
		policy:      policyProvider,
		notifier:    notifier,
		evaluators:  DefaultEvaluators(),
		lookback:    lookback,
		logger:      logger,
		now:         time.Now,
	}
}

// ComputeAssessment runs an on-demand scan for one patient. It fails closed:
// if the policy store or the signal query is unreachable no assessment is
// produced and the error is retryable — defaults are never substituted.
func (e *Engine) ComputeAssessment(ctx context.Context, patientID int64) (*models.RiskAssessment, error) {
	pol, err := e.policy.Get(ctx)
	if err != nil {
		return nil, err // carries policy.ErrUnavailable
	}

	since := e.now().Add(-e.lookback)
	signals, err := e.signals.GetPatientSignals(ctx, patientID, since)
	if err != nil {
		e.logger.Error("Failed to query patient signals",
			zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSignalsUnavailable, err)
	}

	scores := make(map[models.Factor]models.FactorScore, len(e.evaluators))
	for _, ev := range e.evaluators {
		scores[ev.Factor()] = ev.Evaluate(signals)
	}

	assessment := &models.RiskAssessment{
		PatientID:        patientID,
		OverallRiskLevel: Aggregate(scores, pol),
		CalculatedAt:     e.now(),
	}
	for factor, score := range scores {
		assessment.SetFactorScore(factor, score)
	}

	if err := e.assessments.SaveAssessment(ctx, assessment); err != nil {
		e.logger.Error("Failed to save assessment",
			zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	e.logger.Info("Assessment computed",
		zap.Int64("patient_id", patientID),
		zap.String("level", string(assessment.OverallRiskLevel)))

	e.maybeNotify(ctx, pol, assessment)

	return assessment, nil
}

// maybeNotify pushes an alert for high/critical assessments when auto alerts
// are enabled. Notification failures are logged, never propagated — the
// assessment is already persisted.
func (e *Engine) maybeNotify(ctx context.Context, pol *models.ThresholdPolicy, a *models.RiskAssessment) {
	if e.notifier == nil || !pol.AutoAlertEnabled {
		return
	}
	if a.OverallRiskLevel != models.RiskHigh && a.OverallRiskLevel != models.RiskCritical {
		return
	}
	if err := e.notifier.NotifyAssessment(ctx, a); err != nil {
		e.logger.Warn("Failed to send alert notification",
			zap.Int64("patient_id", a.PatientID), zap.Error(err))
	}
}

// RunDailyScan assesses every monitored patient. Failures are isolated per
// patient: one patient's broken signal query is recorded and the scan moves
// on. If the policy becomes unreadable mid-scan, no further patients are
// scheduled and the remaining ones are reported as failed.
func (e *Engine) RunDailyScan(ctx context.Context) (*ScanResult, error) {
	pol, err := e.policy.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !pol.DailyScanEnabled {
		return nil, ErrDailyScanDisabled
	}

	patientIDs, err := e.population.GetMonitoredPatientIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list scan population: %w", err)
	}

	result := &ScanResult{}
	for i, patientID := range patientIDs {
		if _, err := e.ComputeAssessment(ctx, patientID); err != nil {
			result.Failed = append(result.Failed, patientID)
			e.logger.Warn("Scan failed for patient",
				zap.Int64("patient_id", patientID), zap.Error(err))

			if errors.Is(err, policy.ErrUnavailable) {
				// Stop scheduling new evaluations; the policy snapshot is gone.
				result.Failed = append(result.Failed, patientIDs[i+1:]...)
				e.logger.Error("Aborting scan: threshold policy became unreadable")
				break
			}
			continue
		}
		result.Assessed++
	}

	e.logger.Info("Daily scan finished",
		zap.Int("assessed", result.Assessed),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}
