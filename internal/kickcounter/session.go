package kickcounter

import (
	"context"
	"errors"
	"sync"
	"time"

	"motherguard/internal/models"

	"go.uber.org/zap"
)

var (
	ErrAlreadyRecording = errors.New("a recording session is already active")
	ErrNotRecording     = errors.New("no recording session is active")
	ErrEmptySession     = errors.New("cannot save a session with zero kicks")
)

// State of a kick-counter session.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
)

// Recorder is the external store a completed session is written to.
type Recorder interface {
	SaveFMCRecord(ctx context.Context, rec *models.FMCRecord) error
}

// Session is the timed fetal-movement recording state machine for one
// patient: Idle -> Recording -> Idle (saved or discarded). Elapsed time is
// derived from the stored start timestamp on demand, so a display tick never
// owns or mutates session state. Kick events outside Recording are tolerated
// as no-ops to absorb stray input.
type Session struct {
	mu sync.Mutex

	patientID  int64
	state      State
	startedAt  time.Time
	kicks      int
	dailyTotal int
	totalDay   time.Time

	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// Start begins a recording session. Only valid from Idle.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return ErrAlreadyRecording
	}

	s.state = StateRecording
	s.startedAt = s.now()
	s.kicks = 0
	return nil
}

// RecordKick increments the in-progress counter. Outside Recording it is a
// deliberate no-op, not an error.
func (s *Session) RecordKick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return
	}
	s.kicks++
}

// Elapsed returns whole minutes since the session started, zero when idle.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return 0
	}
	return int(s.now().Sub(s.startedAt) / time.Minute)
}

// KickCount returns the in-progress counter.
func (s *Session) KickCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kicks
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DailyTotal returns the running total of kicks saved today.
func (s *Session) DailyTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sameDay(s.totalDay, s.now()) {
		return 0
	}
	return s.dailyTotal
}

// Save persists the session as one FMCRecord and returns to Idle. A session
// with zero kicks is rejected before any state change: an empty session
// carries no medical signal and must not be stored.
func (s *Session) Save(ctx context.Context, notes *string) (*models.FMCRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil, ErrNotRecording
	}
	if s.kicks == 0 {
		return nil, ErrEmptySession
	}

	now := s.now()
	rec := &models.FMCRecord{
		PatientID:       s.patientID,
		KickCount:       s.kicks,
		DurationMinutes: int(now.Sub(s.startedAt) / time.Minute),
		Notes:           notes,
		RecordedAt:      now,
	}

	if err := s.recorder.SaveFMCRecord(ctx, rec); err != nil {
		s.logger.Error("Failed to save kick session",
			zap.Int64("patient_id", s.patientID), zap.Error(err))
		return nil, err
	}

	if !sameDay(s.totalDay, now) {
		s.dailyTotal = 0
		s.totalDay = now
	}
	s.dailyTotal += s.kicks

	s.logger.Info("Kick session saved",
		zap.Int64("patient_id", s.patientID),
		zap.Int("kicks", rec.KickCount),
		zap.Int("duration_minutes", rec.DurationMinutes))

	s.state = StateIdle
	s.kicks = 0
	s.startedAt = time.Time{}

	return rec, nil
}

// Cancel discards the in-progress session without persisting anything.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	s.state = StateIdle
	s.kicks = 0
	s.startedAt = time.Time{}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
