package scheduler

import (
	"context"
	"errors"
	"time"

	"motherguard/internal/policy"
	"motherguard/internal/risk"

	"go.uber.org/zap"
)

// Scanner drives the periodic batch risk scan. It is the only recurring
// trigger of assessments; on-demand scans go straight through the engine.
type Scanner struct {
	engine   *risk.Engine
	policies *policy.Store
	interval time.Duration
	logger   *zap.Logger
}

func NewScanner(engine *risk.Engine, policies *policy.Store, interval time.Duration, logger *zap.Logger) *Scanner {
	return &Scanner{
		engine:   engine,
		policies: policies,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled, kicking off one batch scan per
// interval. A tick is skipped entirely when the policy is unreadable or the
// administrator has disabled the daily scan.
func (s *Scanner) Run(ctx context.Context) {
	s.logger.Info("Risk scan scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Risk scan scheduler stopped.")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scanner) runOnce(ctx context.Context) {
	pol, err := s.policies.Get(ctx)
	if err != nil {
		s.logger.Error("Skipping scheduled scan: policy unreadable", zap.Error(err))
		return
	}
	if !pol.DailyScanEnabled {
		s.logger.Debug("Scheduled scan skipped: daily scan disabled")
		return
	}

	scanCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	result, err := s.engine.RunDailyScan(scanCtx)
	if err != nil {
		if errors.Is(err, risk.ErrDailyScanDisabled) {
			return
		}
		s.logger.Error("Scheduled scan failed", zap.Error(err))
		return
	}

	if len(result.Failed) > 0 {
		s.logger.Warn("Scheduled scan finished with failures",
			zap.Int("assessed", result.Assessed),
			zap.Int64s("failed_patient_ids", result.Failed))
		return
	}
	s.logger.Info("Scheduled scan finished", zap.Int("assessed", result.Assessed))
}
