// Package conversation keeps the per-session turn log in memory. Nothing survives a restart.
package conversation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/askdata/askdata/internal/query"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrSessionRequired = errors.New("session id is required")
	ErrInvalidRole     = errors.New("role must be user or assistant")
)

type Turn struct {
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	SQL       string       `json:"sql,omitempty"`
	Table     *query.Table `json:"table,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Store is safe for concurrent use. MaxTurns, when positive, drops the oldest turns of a session.
type Store struct {
	MaxTurns int
	Clock    func() time.Time

	mu       sync.RWMutex
	sessions map[string][]Turn
}

func NewStore(maxTurns int) *Store {
	return &Store{MaxTurns: maxTurns, Clock: time.Now, sessions: map[string][]Turn{}}
}

func NewSessionID() string {
	return uuid.NewString()
}

func (s *Store) Append(sessionID string, turn Turn) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if turn.Role != RoleUser && turn.Role != RoleAssistant {
		return ErrInvalidRole
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = map[string][]Turn{}
	}
	turns := append(s.sessions[sessionID], turn)
	if s.MaxTurns > 0 && len(turns) > s.MaxTurns {
		turns = append([]Turn(nil), turns[len(turns)-s.MaxTurns:]...)
	}
	s.sessions[sessionID] = turns
	return nil
}

// Turns returns a copy of the session log, oldest first.
func (s *Store) Turns(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Turn{}, s.sessions[sessionID]...)
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}
