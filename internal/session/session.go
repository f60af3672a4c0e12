// Package session keeps the in-memory question/answer history for one
// interactive chat. Turns are context for later prompts only; they are never
// written to the persistent store and vanish when the session ends.
package session

import (
	"github.com/google/uuid"
)

// Turn is one question/answer exchange.
type Turn struct {
	Question string
	Answer   string
}

// Session is an ordered, append-only turn sequence scoped to one chat.
type Session struct {
	id    string
	turns []Turn
}

// New starts an empty session with a fresh identity.
func New() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session identity.
func (s *Session) ID() string { return s.id }

// AppendTurn records a completed exchange. The assistant does not call this
// itself; the caller decides whether a substitute reply is worth keeping.
func (s *Session) AppendTurn(question, answer string) {
	s.turns = append(s.turns, Turn{Question: question, Answer: answer})
}

// History returns a copied snapshot of all turns in order.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Window returns the last k turns, oldest first, for prompt assembly. The
// session itself is unbounded; only the prompt context is windowed so long
// chats do not inflate every subsequent prompt.
func (s *Session) Window(k int) []Turn {
	if k <= 0 || k >= len(s.turns) {
		return s.History()
	}
	out := make([]Turn, k)
	copy(out, s.turns[len(s.turns)-k:])
	return out
}

// Len is the number of recorded turns.
func (s *Session) Len() int { return len(s.turns) }

// Reset clears the history, keeping the session identity.
func (s *Session) Reset() {
	s.turns = nil
}
