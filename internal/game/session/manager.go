// Package session tracks live game sessions for the Telnet server.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/fairdice/internal/game/match"
)

// GameSession tracks one connected player's game.
type GameSession struct {
	// ID uniquely identifies the session.
	ID uuid.UUID
	// RemoteAddr is the client's network address (for logging).
	RemoteAddr string
	// StartedAt is when the session connected.
	StartedAt time.Time
	// Wins, Losses, and Draws are the running score for this connection.
	Wins   int
	Losses int
	Draws  int
}

// Manager tracks all active game sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*GameSession
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*GameSession)}
}

// Add registers a new session for the given client address.
//
// Postcondition: Returns a registered GameSession with a fresh ID.
func (m *Manager) Add(remoteAddr string) *GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &GameSession{
		ID:         uuid.New(),
		RemoteAddr: remoteAddr,
		StartedAt:  time.Now(),
	}
	m.sessions[sess.ID] = sess
	return sess
}

// Remove unregisters a session.
//
// Postcondition: The session is no longer tracked. Returns an error if the
// ID is unknown.
func (m *Manager) Remove(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// Record updates a session's running score with one round outcome.
//
// Postcondition: Exactly one of Wins, Losses, Draws is incremented. Returns
// an error if the ID is unknown.
func (m *Manager) Record(id uuid.UUID, outcome match.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	switch outcome {
	case match.PlayerWins:
		sess.Wins++
	case match.ComputerWins:
		sess.Losses++
	default:
		sess.Draws++
	}
	return nil
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Snapshot returns a copy of all active sessions for logging and shutdown
// reporting.
func (m *Manager) Snapshot() []GameSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]GameSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out
}
