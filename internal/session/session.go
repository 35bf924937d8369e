// Package session drives the conversation: one user turn in, one assistant
// turn out, repeated until the host goes away.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/advisor/internal/conversation"
	"github.com/MikeSquared-Agency/advisor/internal/hermes"
	"github.com/MikeSquared-Agency/advisor/internal/observability"
)

var (
	ErrEmptyInput     = errors.New("empty input")
	ErrTurnInProgress = errors.New("a turn is already being processed")
)

type State string

const (
	StateAwaitingInput State = "awaiting_input"
	StateProcessing    State = "processing"
)

// Responder produces the assistant reply for a conversation. It never fails:
// errors come back as reply text with failed set.
type Responder interface {
	Respond(ctx context.Context, turns []conversation.Turn) (reply string, failed bool)
}

// Publisher emits turn events. Optional.
type Publisher interface {
	Publish(subject string, data any) error
}

// Session owns one conversation for its whole lifetime. Submit serialises
// turns: a second submit while one is processing is rejected, not queued.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	conv      *conversation.Conversation
	responder Responder
	publisher Publisher
	logger    *slog.Logger

	busy       sync.Mutex
	mu         sync.RWMutex
	state      State
	lastActive time.Time
}

func New(responder Responder, publisher Publisher, logger *slog.Logger) *Session {
	id := uuid.New()
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		lastActive: now,
		conv:       conversation.New(),
		responder:  responder,
		publisher:  publisher,
		logger:     logger.With("session_id", id.String()),
		state:      StateAwaitingInput,
	}
}

// Submit appends the user turn, asks the responder for a reply and appends
// that as the assistant turn. The returned turn is the assistant's.
func (s *Session) Submit(ctx context.Context, input string) (conversation.Turn, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return conversation.Turn{}, ErrEmptyInput
	}
	if !s.busy.TryLock() {
		return conversation.Turn{}, ErrTurnInProgress
	}
	defer s.busy.Unlock()

	s.mu.Lock()
	s.state = StateProcessing
	s.lastActive = time.Now().UTC()
	user := s.conv.Append(conversation.RoleUser, input)
	history := s.conv.Turns()
	s.mu.Unlock()
	observability.TurnsTotal.WithLabelValues(string(conversation.RoleUser)).Inc()

	s.logger.Debug("processing turn", "turns", len(history))
	reply, failed := s.responder.Respond(ctx, history)

	s.mu.Lock()
	assistant := s.conv.Append(conversation.RoleAssistant, reply)
	s.state = StateAwaitingInput
	s.lastActive = time.Now().UTC()
	n := s.conv.Len()
	s.mu.Unlock()
	observability.TurnsTotal.WithLabelValues(string(conversation.RoleAssistant)).Inc()

	s.publish(n-2, user, false)
	s.publish(n-1, assistant, failed)

	return assistant, nil
}

// Turns returns the conversation so far.
func (s *Session) Turns() []conversation.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conv.Turns()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastActive is when a turn last started or finished, or the creation time
// for a session with no turns yet.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

func (s *Session) publish(index int, t conversation.Turn, failed bool) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(hermes.SubjectTurn, hermes.TurnEvent{
		SessionID: s.ID.String(),
		Index:     index,
		Role:      string(t.Role),
		Content:   t.Content,
		Failed:    failed,
		Timestamp: t.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("failed to publish turn event", "index", index, "error", err)
	}
}
