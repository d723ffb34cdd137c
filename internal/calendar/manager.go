package calendar

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager tracks live calendar sessions. Sessions hold only
// in-memory state and are discarded after a period of inactivity.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionManager creates an empty session manager.
func NewSessionManager(now func() time.Time) *SessionManager {
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Create starts a new session and returns it.
func (m *SessionManager) Create() *Session {
	s := NewSession(uuid.NewString(), m.now)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get returns the session with the given id, or nil.
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PruneStale drops sessions idle for longer than ttl. Called
// periodically from the scheduler.
func (m *SessionManager) PruneStale(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, s := range m.sessions {
		if s.LastAccess().Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}

	if pruned > 0 {
		log.Printf("Pruned %d stale calendar sessions", pruned)
	}
	return pruned
}
