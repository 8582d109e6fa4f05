package kickcounter

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager hands out one Session per patient, so a patient can never run two
// concurrent recordings. Sessions live for the process lifetime; the daily
// total resets itself when the day rolls over.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewManager(recorder Recorder, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Session returns the singleton session for a patient, creating it on first
// use.
func (m *Manager) Session(patientID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[patientID]; ok {
		return s
	}

	s := &Session{
		patientID: patientID,
		state:     StateIdle,
		recorder:  m.recorder,
		logger:    m.logger,
		now:       m.now,
	}
	m.sessions[patientID] = s
	return s
}

// ActiveSessionCount reports how many patients are currently recording.
func (m *Manager) ActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, s := range m.sessions {
		if s.State() == StateRecording {
			count++
		}
	}
	return count
}
