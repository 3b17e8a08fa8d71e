// Package session owns one logged-in chat: the transcript, the single
// in-flight request, and turning backend replies into transcript entries.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"bank-chat-client/internal/backend"
	"bank-chat-client/internal/chat"
	"bank-chat-client/internal/store"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrBusy         = errors.New("a message is already awaiting a reply")
	ErrEmptyMessage = errors.New("message is empty")
	ErrInvalidLogin = errors.New("Please enter both username and password")
)

type User struct {
	Username   string
	CustomerID string
}

type Session struct {
	backend    backend.Backend
	normalizer *chat.Normalizer
	transcript *store.Transcript
	logger     *zap.Logger
	now        func() time.Time

	mu         sync.Mutex
	user       *User
	awaiting   bool
	generation uint64
}

func New(b backend.Backend, n *chat.Normalizer, t *store.Transcript, logger *zap.Logger) *Session {
	return &Session{
		backend:    b,
		normalizer: n,
		transcript: t,
		logger:     logger,
		now:        time.Now,
	}
}

// Login starts a session. Any non-empty username and password are accepted;
// the password is not kept.
func (s *Session) Login(username, password, customerID string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrInvalidLogin
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &User{Username: username, CustomerID: strings.TrimSpace(customerID)}
	s.logger.Info("login", zap.String("username", username), zap.String("customer_id", s.user.CustomerID))
	return nil
}

// Logout clears the transcript and drops the user. A reply still in flight
// is discarded when it arrives.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.logger.Info("logout", zap.String("username", s.user.Username))
	}
	s.user = nil
	s.awaiting = false
	s.generation++
	s.transcript.Clear()
}

func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Awaiting reports whether a request is outstanding.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

func (s *Session) Messages() []chat.Message {
	return s.transcript.List()
}

// Message returns one transcript entry by id.
func (s *Session) Message(id int64) (chat.Message, bool) {
	return s.transcript.Get(id)
}

// Turn is one outstanding request. The prompt is already in the transcript.
type Turn struct {
	s      *Session
	gen    uint64
	user   User
	Prompt chat.Message
}

// Begin records the user's message and claims the in-flight slot. Blank
// input is rejected without touching the transcript.
func (s *Session) Begin(text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, ErrNotLoggedIn
	}
	if s.awaiting {
		return nil, ErrBusy
	}
	s.awaiting = true
	prompt := s.transcript.Append(chat.Message{
		Sender:    chat.SenderUser,
		Timestamp: s.now(),
		Text:      text,
	})
	return &Turn{s: s, gen: s.generation, user: *s.user, Prompt: prompt}, nil
}

// Complete performs the round trip and appends the reply. It returns the
// appended messages, or nil if the session was logged out meanwhile.
func (t *Turn) Complete(ctx context.Context) []chat.Message {
	s := t.s
	reply, err := s.backend.SendMessage(ctx, t.Prompt.Text, backend.SessionContext{
		Username:   t.user.Username,
		CustomerID: t.user.CustomerID,
	})
	pending := s.resolve(reply, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != t.gen {
		s.logger.Info("discarding reply after logout", zap.Int64("prompt_id", t.Prompt.ID))
		return nil
	}
	s.awaiting = false
	out := make([]chat.Message, 0, len(pending))
	for _, m := range pending {
		out = append(out, s.transcript.Append(m))
	}
	return out
}

// Send is Begin followed by Complete.
func (s *Session) Send(ctx context.Context, text string) ([]chat.Message, error) {
	turn, err := s.Begin(text)
	if err != nil {
		return nil, err
	}
	return turn.Complete(ctx), nil
}

// resolve maps a round trip to the bot messages it produces: the normalized
// reply when the body parses, followed by an error message when the call
// failed. A forbidden status is not a failure.
func (s *Session) resolve(reply *backend.Reply, err error) []chat.Message {
	if err != nil {
		s.logger.Warn("send failed", zap.Error(err))
		return []chat.Message{s.errorMessage(err.Error())}
	}

	outcome, err := s.normalizer.NormalizeBody(reply.Body, !reply.OK(), reply.Status)
	if err != nil {
		s.logger.Warn("unreadable reply", zap.Int("status", reply.Status), zap.Error(err))
		return []chat.Message{s.errorMessage(err.Error())}
	}
	msgs := []chat.Message{outcome.Message}
	if outcome.Failed {
		s.logger.Warn("reply with failure status", zap.Int("status", reply.Status))
		msgs = append(msgs, s.errorMessage(fmt.Sprintf("HTTP error! status: %d", reply.Status)))
	}
	return msgs
}

func (s *Session) errorMessage(cause string) chat.Message {
	return chat.Message{
		Sender:    chat.SenderBot,
		Timestamp: s.now(),
		Text:      fmt.Sprintf("Error: %s. Please check if the API endpoint is running.", cause),
		IsError:   true,
	}
}
