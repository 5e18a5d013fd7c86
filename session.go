package counsel

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session represents a conversation between one user and the assistant.
// Turns are append-only and ordered by arrival. Session is not safe for
// concurrent use; the store package provides the guarded access path.
type Session struct {
	ID        string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time
	// TotalTokens accumulates the token counts reported by the provider
	// across all turns in this session, including turns that were later
	// evicted by truncation.
	TotalTokens int
}

// NewSession creates an empty session with a generated ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        newSessionID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn to the session and accumulates its token count.
func (s *Session) Append(t Turn) {
	s.Turns = append(s.Turns, t)
	s.TotalTokens += t.Tokens
	s.UpdatedAt = time.Now()
}

// Truncate discards the oldest turns so that at most max remain.
// max <= 0 means unbounded.
func (s *Session) Truncate(max int) {
	if max <= 0 || len(s.Turns) <= max {
		return
	}
	kept := make([]Turn, max)
	copy(kept, s.Turns[len(s.Turns)-max:])
	s.Turns = kept
}

// History returns a copy of the session's turns.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.Turns))
	copy(out, s.Turns)
	return out
}

// Clear resets the conversation history and token count while preserving
// the session's identity and creation time.
func (s *Session) Clear() {
	s.Turns = nil
	s.TotalTokens = 0
	s.UpdatedAt = time.Now()
}

// newSessionID returns a short random hex identifier.
func newSessionID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b[:])
}
