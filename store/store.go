// Package store maintains the in-process mapping from session ID to
// conversation history. Histories are bounded: appending beyond the
// configured turn count evicts the oldest turns first.
//
// There is no persistence. The store is mutex-guarded because Bubble Tea
// runs commands on their own goroutines; all reads return copies so
// callers never hold references into guarded state.
package store

import (
	"sync"

	counsel "github.com/mlevan/counsel"
)

// DefaultMaxTurns bounds a session to 20 exchanges (40 turns).
const DefaultMaxTurns = 40

// Store maps session IDs to sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*counsel.Session
	maxTurns int
}

// Option configures a [Store].
type Option func(*Store)

// WithMaxTurns sets the per-session turn bound. Values <= 0 mean unbounded.
func WithMaxTurns(n int) Option {
	return func(s *Store) { s.maxTurns = n }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*counsel.Session),
		maxTurns: DefaultMaxTurns,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create starts a new session and returns its ID.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := counsel.NewSession()
	s.sessions[sess.ID] = sess
	return sess.ID
}

// Append adds a turn to the identified session, creating the session if it
// does not exist, and evicts the oldest turns beyond the configured bound.
// It returns the resulting history.
func (s *Store) Append(id string, t counsel.Turn) []counsel.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	sess.Append(t)
	sess.Truncate(s.maxTurns)
	return sess.History()
}

// History returns a copy of the identified session's turns. A session that
// was never written to has empty history.
func (s *Store) History(id string) []counsel.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return sess.History()
}

// Stats describes a session for display purposes.
type Stats struct {
	TurnCount   int
	TotalTokens int
}

// Stats returns display statistics for the identified session.
func (s *Store) Stats(id string) (Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Stats{}, false
	}
	return Stats{TurnCount: len(sess.Turns), TotalTokens: sess.TotalTokens}, true
}

// Clear resets the identified session's history while keeping the session.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Clear()
	}
}

// get returns the session for id, creating it when absent.
// Caller must hold s.mu.
func (s *Store) get(id string) *counsel.Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = counsel.NewSession()
		sess.ID = id
		s.sessions[id] = sess
	}
	return sess
}
