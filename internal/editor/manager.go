package editor

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmitchellscott/ditherbox/internal/logging"
)

// Manager owns the live sessions and expires idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time

	maxOutputPixels int
}

// NewManager creates a manager whose sessions expire after ttl without
// access. A non-positive ttl disables expiry.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,

		maxOutputPixels: DefaultMaxOutputPixels,
	}
}

// SetMaxOutputPixels bounds the preview and export area of sessions
// created afterwards.
func (m *Manager) SetMaxOutputPixels(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxOutputPixels = n
}

// Create starts a session for source.
func (m *Manager) Create(source image.Image, sourceName string) (*Session, error) {
	s, err := NewSession(source, sourceName)
	if err != nil {
		return nil, err
	}
	s.touch(m.now())

	m.mu.Lock()
	s.SetMaxOutputPixels(m.maxOutputPixels)
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	size := s.SourceSize()
	logging.InfoWithComponent(logging.ComponentEditor, "session created",
		"session_id", s.ID, "source", sourceName, "size", size.String(), "sessions", count)
	return s, nil
}

// Get returns the session with id and marks it as used.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Delete drops a session.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
