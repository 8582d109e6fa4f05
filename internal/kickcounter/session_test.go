package kickcounter

import (
	"context"
	"errors"
	"testing"
	"time"

	"motherguard/internal/models"

	"go.uber.org/zap"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeRecorder struct {
	records []*models.FMCRecord
	err     error
}

func (f *fakeRecorder) SaveFMCRecord(_ context.Context, rec *models.FMCRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func newTestSession(recorder *fakeRecorder, clock *fakeClock) *Session {
	return &Session{
		patientID: 42,
		state:     StateIdle,
		recorder:  recorder,
		logger:    zap.NewNop(),
		now:       clock.Now,
	}
}

func TestSaveRejectsEmptySession(t *testing.T) {
	recorder := &fakeRecorder{}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(recorder, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := s.Save(context.Background(), nil)
	if !errors.Is(err, ErrEmptySession) {
		t.Fatalf("expected empty session error, got %v", err)
	}
	if len(recorder.records) != 0 {
		t.Fatalf("nothing must be persisted, got %d records", len(recorder.records))
	}
	// The rejection must leave the session recording so kicks can still come in.
	if s.State() != StateRecording {
		t.Fatalf("expected session to stay recording, got %s", s.State())
	}
}

func TestSaveProducesSingleRecord(t *testing.T) {
	recorder := &fakeRecorder{}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(recorder, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 5; i++ {
		s.RecordKick()
	}
	clock.Advance(25 * time.Minute)

	rec, err := s.Save(context.Background(), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(recorder.records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(recorder.records))
	}
	if rec.KickCount != 5 {
		t.Fatalf("expected 5 kicks, got %d", rec.KickCount)
	}
	if rec.DurationMinutes != 25 {
		t.Fatalf("expected 25 minutes, got %d", rec.DurationMinutes)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle after save, got %s", s.State())
	}
	if s.DailyTotal() != 5 {
		t.Fatalf("expected daily total 5, got %d", s.DailyTotal())
	}
}

func TestRecordKickOutsideRecordingIsNoOp(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(&fakeRecorder{}, clock)

	s.RecordKick()
	s.RecordKick()

	if s.KickCount() != 0 {
		t.Fatalf("expected 0 kicks while idle, got %d", s.KickCount())
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestStartWhileRecordingFails(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(&fakeRecorder{}, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("expected already recording error, got %v", err)
	}
}

func TestCancelDiscardsSession(t *testing.T) {
	recorder := &fakeRecorder{}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(recorder, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.RecordKick()
	s.RecordKick()

	if err := s.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(recorder.records) != 0 {
		t.Fatalf("cancel must not persist, got %d records", len(recorder.records))
	}
	if s.State() != StateIdle || s.KickCount() != 0 {
		t.Fatalf("expected clean idle session, got state=%s kicks=%d", s.State(), s.KickCount())
	}
}

func TestSaveWithoutActiveSessionFails(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(&fakeRecorder{}, clock)

	if _, err := s.Save(context.Background(), nil); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("expected not recording error, got %v", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("expected not recording error, got %v", err)
	}
}

func TestElapsedDerivedFromStartTime(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(&fakeRecorder{}, clock)

	if s.Elapsed() != 0 {
		t.Fatalf("expected 0 elapsed while idle, got %d", s.Elapsed())
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(17*time.Minute + 30*time.Second)

	if got := s.Elapsed(); got != 17 {
		t.Fatalf("expected 17 whole minutes, got %d", got)
	}
}

func TestDailyTotalResetsOnDayChange(t *testing.T) {
	recorder := &fakeRecorder{}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)}
	s := newTestSession(recorder, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.RecordKick()
	s.RecordKick()
	s.RecordKick()
	if _, err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.DailyTotal() != 3 {
		t.Fatalf("expected daily total 3, got %d", s.DailyTotal())
	}

	clock.Advance(6 * time.Hour) // past midnight
	if s.DailyTotal() != 0 {
		t.Fatalf("expected daily total reset on new day, got %d", s.DailyTotal())
	}
}

func TestSaveFailurePreservesSession(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("store down")}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := newTestSession(recorder, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.RecordKick()

	if _, err := s.Save(context.Background(), nil); err == nil {
		t.Fatal("expected save error")
	}
	// The session data must survive a failed write so the patient can retry.
	if s.State() != StateRecording || s.KickCount() != 1 {
		t.Fatalf("expected session preserved, got state=%s kicks=%d", s.State(), s.KickCount())
	}
}

func TestManagerReturnsSameSessionPerPatient(t *testing.T) {
	m := NewManager(&fakeRecorder{}, zap.NewNop())

	if m.Session(1) != m.Session(1) {
		t.Fatal("expected the same session instance per patient")
	}
	if m.Session(1) == m.Session(2) {
		t.Fatal("expected distinct sessions per patient")
	}

	if err := m.Session(1).Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := m.ActiveSessionCount(); got != 1 {
		t.Fatalf("expected 1 active session, got %d", got)
	}
}
