package chat

import (
	"github.com/google/uuid"

	"github.com/Sumanth-CBRE/Weatherbot/internal/llm"
)

// Session owns the conversation history for one user session. Turns
// accumulate for its lifetime and are replayed in full on every model call;
// nothing is stored on the model side. A Session is not safe for concurrent
// use; each session belongs to exactly one caller.
type Session struct {
	ID       string
	messages []llm.Message
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Append adds turns to the history.
func (s *Session) Append(msgs ...llm.Message) {
	s.messages = append(s.messages, msgs...)
}

// Messages returns a copy of the history so callers cannot mutate it.
func (s *Session) Messages() []llm.Message {
	out := make([]llm.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of turns accumulated so far.
func (s *Session) Len() int {
	return len(s.messages)
}
