package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"motherguard/internal/models"
	"motherguard/internal/policy"

	"go.uber.org/zap"
)

type fakeSignalSource struct {
	signals map[int64]*models.PatientSignals
	failFor map[int64]error
}

func (f *fakeSignalSource) GetPatientSignals(_ context.Context, patientID int64, _ time.Time) (*models.PatientSignals, error) {
	if err, ok := f.failFor[patientID]; ok {
		return nil, err
	}
	if s, ok := f.signals[patientID]; ok {
		return s, nil
	}
	return &models.PatientSignals{}, nil
}

type fakeAssessmentSink struct {
	saved   []*models.RiskAssessment
	saveErr error
}

func (f *fakeAssessmentSink) SaveAssessment(_ context.Context, a *models.RiskAssessment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, a)
	return nil
}

type fakePopulation struct {
	ids []int64
}

func (f *fakePopulation) GetMonitoredPatientIDs() ([]int64, error) {
	return f.ids, nil
}

type fakePolicyProvider struct {
	policy *models.ThresholdPolicy
	err    error
	// failAfter makes Get fail once the call count passes the limit
	failAfter int
	calls     int
}

func (f *fakePolicyProvider) Get(context.Context) (*models.ThresholdPolicy, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failAfter > 0 && f.calls > f.failAfter {
		return nil, policy.ErrUnavailable
	}
	return f.policy, nil
}

type fakeNotifier struct {
	notified []*models.RiskAssessment
}

func (f *fakeNotifier) NotifyAssessment(_ context.Context, a *models.RiskAssessment) error {
	f.notified = append(f.notified, a)
	return nil
}

func newTestEngine(signals *fakeSignalSource, sink *fakeAssessmentSink, population *fakePopulation, policies *fakePolicyProvider, notifier Notifier) *Engine {
	return NewEngine(signals, sink, population, policies, notifier, 7*24*time.Hour, zap.NewNop())
}

func highRiskSignals() *models.PatientSignals {
	// Hemoglobin 5.5 drives the anemia score to 0.95, past the critical ceiling.
	return &models.PatientSignals{
		Labs: []models.LabResult{
			{TestName: models.LabHemoglobin, Value: 5.5},
			{TestName: models.LabFastingGlucose, Value: 85},
		},
	}
}

func TestComputeAssessmentPersistsResult(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	sink := &fakeAssessmentSink{}
	engine := newTestEngine(
		&fakeSignalSource{signals: map[int64]*models.PatientSignals{1: highRiskSignals()}},
		sink,
		&fakePopulation{},
		&fakePolicyProvider{policy: &pol},
		nil,
	)

	a, err := engine.ComputeAssessment(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.OverallRiskLevel != models.RiskCritical {
		t.Fatalf("expected critical, got %s", a.OverallRiskLevel)
	}
	if len(sink.saved) != 1 {
		t.Fatalf("expected 1 saved assessment, got %d", len(sink.saved))
	}
	if a.AnemiaRisk == nil {
		t.Fatal("expected anemia score to be stored")
	}
	if a.PretermBirthRisk != nil {
		t.Fatal("expected preterm score to be NULL without symptom data")
	}
}

func TestComputeAssessmentFailsClosedOnPolicyError(t *testing.T) {
	sink := &fakeAssessmentSink{}
	engine := newTestEngine(
		&fakeSignalSource{},
		sink,
		&fakePopulation{},
		&fakePolicyProvider{err: policy.ErrUnavailable},
		nil,
	)

	_, err := engine.ComputeAssessment(context.Background(), 1)
	if !errors.Is(err, policy.ErrUnavailable) {
		t.Fatalf("expected policy unavailable error, got %v", err)
	}
	if len(sink.saved) != 0 {
		t.Fatalf("no assessment must be persisted on policy failure, got %d", len(sink.saved))
	}
}

func TestComputeAssessmentFailsOnSignalError(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	sink := &fakeAssessmentSink{}
	engine := newTestEngine(
		&fakeSignalSource{failFor: map[int64]error{1: errors.New("connection refused")}},
		sink,
		&fakePopulation{},
		&fakePolicyProvider{policy: &pol},
		nil,
	)

	_, err := engine.ComputeAssessment(context.Background(), 1)
	if !errors.Is(err, ErrSignalsUnavailable) {
		t.Fatalf("expected signals unavailable error, got %v", err)
	}
	if len(sink.saved) != 0 {
		t.Fatalf("no assessment must be persisted on signal failure, got %d", len(sink.saved))
	}
}

func TestRunDailyScanIsolatesPatientFailures(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	sink := &fakeAssessmentSink{}
	engine := newTestEngine(
		&fakeSignalSource{
			signals: map[int64]*models.PatientSignals{
				1: {},
				3: {},
			},
			failFor: map[int64]error{2: errors.New("timeout")},
		},
		sink,
		&fakePopulation{ids: []int64{1, 2, 3}},
		&fakePolicyProvider{policy: &pol},
		nil,
	)

	result, err := engine.RunDailyScan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Assessed != 2 {
		t.Fatalf("expected 2 assessed, got %d", result.Assessed)
	}
	if len(result.Failed) != 1 || result.Failed[0] != 2 {
		t.Fatalf("expected patient 2 to be the only failure, got %v", result.Failed)
	}
	if len(sink.saved) != 2 {
		t.Fatalf("expected 2 saved assessments, got %d", len(sink.saved))
	}
}

func TestRunDailyScanDisabledByPolicy(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	pol.DailyScanEnabled = false
	engine := newTestEngine(
		&fakeSignalSource{},
		&fakeAssessmentSink{},
		&fakePopulation{ids: []int64{1}},
		&fakePolicyProvider{policy: &pol},
		nil,
	)

	_, err := engine.RunDailyScan(context.Background())
	if !errors.Is(err, ErrDailyScanDisabled) {
		t.Fatalf("expected daily scan disabled error, got %v", err)
	}
}

func TestRunDailyScanStopsWhenPolicyBecomesUnreadable(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	sink := &fakeAssessmentSink{}
	// Call 1: scan-level check. Call 2: patient 1's evaluation. Call 3 fails,
	// so patient 2's evaluation aborts and patient 3 is never scheduled.
	policies := &fakePolicyProvider{policy: &pol, failAfter: 2}
	engine := newTestEngine(
		&fakeSignalSource{},
		sink,
		&fakePopulation{ids: []int64{1, 2, 3}},
		policies,
		nil,
	)

	result, err := engine.RunDailyScan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Assessed != 1 {
		t.Fatalf("expected 1 assessed before abort, got %d", result.Assessed)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected remaining patients reported failed, got %v", result.Failed)
	}
	if len(sink.saved) != 1 {
		t.Fatalf("expected 1 saved assessment, got %d", len(sink.saved))
	}
}

func TestNotifierCalledForCriticalWhenAutoAlertEnabled(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	notifier := &fakeNotifier{}
	engine := newTestEngine(
		&fakeSignalSource{signals: map[int64]*models.PatientSignals{1: highRiskSignals()}},
		&fakeAssessmentSink{},
		&fakePopulation{},
		&fakePolicyProvider{policy: &pol},
		notifier,
	)

	if _, err := engine.ComputeAssessment(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notified))
	}
}

func TestNotifierSkippedWhenAutoAlertDisabled(t *testing.T) {
	pol := models.DefaultThresholdPolicy()
	pol.AutoAlertEnabled = false
	notifier := &fakeNotifier{}
	engine := newTestEngine(
		&fakeSignalSource{signals: map[int64]*models.PatientSignals{1: highRiskSignals()}},
		&fakeAssessmentSink{},
		&fakePopulation{},
		&fakePolicyProvider{policy: &pol},
		notifier,
	)

	if _, err := engine.ComputeAssessment(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.notified) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.notified))
	}
}
