package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDAttempts bounds the retries when a generated ID collides
const maxIDAttempts = 32

// GameFactory builds the game hosted by a new session
type GameFactory func() *engine.Game

// Manager is the registry of hosted games
type Manager struct {
	sessions map[string]*service.Session
	newGame  GameFactory
	mu       sync.RWMutex
}

// NewManager creates a registry whose games use the default maze and a
// time-seeded random source
func NewManager() *Manager {
	return NewManagerWithFactory(func() *engine.Game {
		return engine.NewGame()
	})
}

// NewManagerWithFactory creates a registry that builds games with f.
// Each call of f must return a game with its own random source.
func NewManagerWithFactory(f GameFactory) *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		newGame:  f,
	}
}

// Create hosts a new game under id. An empty id gets a generated one.
func (m *Manager) Create(id string) (*service.Session, error) {
	id = strings.TrimSpace(id)
	if strings.ContainsAny(id, "/?#") {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		generated, err := m.generateUniqueID()
		if err != nil {
			return nil, err
		}
		id = generated
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	sess := service.NewSession(id, m.newGame())
	m.sessions[strings.ToLower(id)] = sess
	return sess, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List returns all hosted sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	sess.Touch()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, sess := range m.sessions {
		if sess.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of hosted sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateUniqueID returns a random 4-character ID not yet in use.
// Caller must hold the write lock.
func (m *Manager) generateUniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := generateSessionID()
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", ErrSessionAlreadyExists
}

// generateSessionID generates a random 4-character session ID
func generateSessionID() string {
	// 2 random bytes, 4 hex characters
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
