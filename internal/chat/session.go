package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Greeting is the first assistant message of every transcript.
func Greeting(topic string) string {
	return fmt.Sprintf("Hello! How can I help you with %s?", topic)
}

// Session is a topic-scoped chat transcript. Turns are serialized: Send
// fails fast while another turn is running. Safe for concurrent use.
type Session struct {
	responder Responder
	now       func() time.Time

	mu       sync.Mutex
	topic    string
	messages []Message
	busy     bool
	epoch    int
}

// NewSession creates a session seeded with the greeting for topic.
func NewSession(r Responder, topic string) *Session {
	s := &Session{responder: r, now: time.Now}
	s.Reset(topic)
	return s
}

// Topic returns the current topic.
func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Busy reports whether a turn is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset starts a new transcript for topic. A turn still in flight is
// discarded when it completes.
func (s *Session) Reset(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic = strings.TrimSpace(topic)
	s.epoch++
	s.messages = []Message{s.message(RoleAssistant, Greeting(s.topic))}
}

// Send runs one turn. The user message is appended immediately and rolled
// back if the text stage fails. Media failures are attached as warnings.
func (s *Session) Send(ctx context.Context, text string, includeAudio bool) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrTurnInProgress
	}
	s.busy = true
	epoch := s.epoch
	topic := s.topic
	user := s.message(RoleUser, text)
	s.messages = append(s.messages, user)
	s.mu.Unlock()

	reply, err := s.responder.Respond(ctx, Request{Topic: topic, Query: text, IncludeAudio: includeAudio})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if s.epoch != epoch {
		return nil, fmt.Errorf("chat was reset during the turn: %w", context.Canceled)
	}
	if err != nil {
		s.rollback(user.ID)
		return nil, err
	}

	msg := s.message(RoleAssistant, reply.Response)
	msg.Image = reply.Image
	msg.Audio = reply.Audio
	msg.Warnings = reply.Warnings()
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *Session) rollback(id string) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

func (s *Session) message(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
}
