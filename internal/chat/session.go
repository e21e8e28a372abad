// Package chat holds a turn-based conversation with a single character.
package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapi"
)

// FallbackReply stands in for the character's answer when a turn fails.
const FallbackReply = "Failed to send message. Please try again."

var (
	ErrBlankMessage = errors.NewSentinel("message is blank")
	ErrTurnInFlight = errors.NewSentinel("a reply is still pending")
	ErrUnknownTurn  = errors.NewSentinel("turn is not in flight")
	ErrClosed       = errors.NewSentinel("chat session closed")
)

// Backend answers a message given the conversation that preceded it. [swapi.CharacterService] satisfies it.
type Backend interface {
	Chat(ctx context.Context, characterID int, message string, previous []models.ChatMessage) (models.ChatReply, error)
}

// Turn is a user message waiting for its reply.
type Turn struct {
	// ID is the identifier of the user message.
	ID      int64
	Message string
	// previous is the log as it was before the user message was appended.
	previous []models.ChatMessage
}

// State is a snapshot of a Session.
type State struct {
	Messages []models.ChatMessage
	Awaiting bool
	// Banner is the raw error message of the latest failed turn. It's cleared when the next turn begins.
	Banner string
}

// Session is the conversation with one character. The message log is append-only and message ids increase
// strictly. All methods are safe for concurrent use.
type Session struct {
	character models.Character
	backend   Backend
	logger    *slog.Logger
	onChange  func(State)
	now       func() time.Time

	ctx    context.Context //nolint:containedctx // cancelled on Close to abort the turn in flight
	cancel context.CancelFunc

	mu         sync.Mutex
	messages   []models.ChatMessage
	lastID     int64
	current    int64
	// completing is set while the backend call of the current turn runs.
	completing bool
	banner     string
	replies    map[int64]int
	closed     bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger of the turn lifecycle. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithOnChange registers fn to be called with a snapshot after every change of the log. Hosts use it to scroll to
// the newest message.
func WithOnChange(fn func(State)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// WithClock overrides the source of message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New starts an empty conversation with character.
func New(ctx context.Context, character models.Character, backend Backend, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		character:  character,
		backend:    backend,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		onChange:   nil,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
		mu:         sync.Mutex{},
		messages:   nil,
		lastID:     0,
		current:    0,
		completing: false,
		banner:     "",
		replies:    make(map[int64]int),
		closed:     false,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Character is the target of the conversation.
func (s *Session) Character() models.Character {
	return s.character
}

// Begin appends the trimmed input as a user message and marks the session as awaiting the reply.
func (s *Session) Begin(input string) (Turn, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Turn{}, ErrBlankMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Turn{}, ErrClosed
	}
	if s.current != 0 {
		s.mu.Unlock()
		return Turn{}, ErrTurnInFlight
	}
	previous := make([]models.ChatMessage, len(s.messages))
	copy(previous, s.messages)
	msg := s.append(models.RoleUser, text, false)
	s.current = msg.ID
	s.banner = ""
	state := s.snapshot()
	s.mu.Unlock()

	s.notify(state)
	return Turn{ID: msg.ID, Message: text, previous: previous}, nil
}

// Complete asks the backend for the reply to turn and appends it. When the backend fails, the fallback reply marked
// as error is appended instead, the banner shows the error and the error is returned together with the fallback.
func (s *Session) Complete(ctx context.Context, turn Turn) (models.ChatMessage, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrClosed
	}
	if turn.ID == 0 || s.current != turn.ID {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrUnknownTurn
	}
	if s.completing {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrTurnInFlight
	}
	s.completing = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	ctx = logging.WithAttrs(ctx, slog.Int("character_id", s.character.EntityID()), slog.Int64("turn_id", turn.ID))
	start := time.Now()
	reply, err := s.backend.Chat(ctx, s.character.EntityID(), turn.Message, turn.previous)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrClosed
	}
	var msg models.ChatMessage
	if err != nil {
		msg = s.append(models.RoleAssistant, FallbackReply, true)
		s.banner = errorText(err)
	} else {
		msg = s.append(models.RoleAssistant, reply.Response, false)
	}
	s.replies[turn.ID] = len(s.messages) - 1
	s.current = 0
	s.completing = false
	state := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "chat turn failed", errors.SlogError(err))
	} else {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "chat turn completed", slog.Duration("duration", time.Since(start)))
	}
	s.notify(state)
	if err != nil {
		return msg, errors.Wrap(err, "chat with character")
	}
	return msg, nil
}

// Send is Begin followed by Complete.
func (s *Session) Send(ctx context.Context, input string) (models.ChatMessage, error) {
	turn, err := s.Begin(input)
	if err != nil {
		return models.ChatMessage{}, err
	}
	return s.Complete(ctx, turn)
}

// Reply returns the assistant message that answered the turn started with the user message turnID.
func (s *Session) Reply(turnID int64) (models.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.replies[turnID]
	if !ok {
		return models.ChatMessage{}, false
	}
	return s.messages[idx], true
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Close aborts the turn in flight. The log is frozen afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}

// append adds a message with the next id. The caller must hold the lock.
func (s *Session) append(role models.Role, content string, failed bool) models.ChatMessage {
	s.lastID++
	msg := models.ChatMessage{
		ID:        s.lastID,
		Content:   content,
		Role:      role,
		Timestamp: s.now(),
		Error:     failed,
	}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Session) snapshot() State {
	messages := make([]models.ChatMessage, len(s.messages))
	copy(messages, s.messages)
	return State{Messages: messages, Awaiting: s.current != 0, Banner: s.banner}
}

func (s *Session) notify(state State) {
	if s.onChange != nil {
		s.onChange(state)
	}
}

// errorText is the message shown in the banner. API errors carry a user-facing message, anything else is shown
// as is.
func errorText(err error) string {
	var apiErr *swapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
