package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/time/rate"
	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

// ErrSessionClosed is returned by calls made after Close.
var ErrSessionClosed = errors.New("assistant session closed")

// Backend is a text generation service.
type Backend interface {
	// Generate answers a single prompt without conversation state.
	Generate(ctx context.Context, prompt string) (string, error)
	// Chat sends one turn of the ongoing conversation.
	Chat(ctx context.Context, message string) (string, error)
	// Close releases backend resources and forgets the conversation.
	Close() error
}

// Options tune a Session.
type Options struct {
	// RequestsPerMinute caps backend calls; zero or less disables the limit.
	RequestsPerMinute int
	Burst             int
	Logger            pslog.Logger
}

// Session is the workspace-owned AI session. It is created once when the
// workspace starts and closed on shutdown; both the edit pipeline and the
// chat go through it.
type Session struct {
	backend Backend
	limiter *rate.Limiter
	log     pslog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewSession wraps a backend.
func NewSession(backend Backend, opts Options) *Session {
	limit := rate.Inf
	burst := opts.Burst
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60)
		if burst <= 0 {
			burst = 1
		}
	}
	log := opts.Logger
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	return &Session{
		backend: backend,
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// Transform rewrites text for an edit action. The result is trimmed.
func (s *Session) Transform(ctx context.Context, action schema.Action, text string) (string, error) {
	prompt, err := ActionPrompt(action, text)
	if err != nil {
		return "", err
	}
	out, err := s.call(ctx, "transform", func(ctx context.Context) (string, error) {
		return s.backend.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Converse sends one chat turn; the backend keeps the conversation history.
func (s *Session) Converse(ctx context.Context, prompt string) (string, error) {
	return s.call(ctx, "converse", func(ctx context.Context) (string, error) {
		return s.backend.Chat(ctx, prompt)
	})
}

func (s *Session) call(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		s.log.Warn("assistant rate limit wait failed", "op", op, "err", err)
		return "", err
	}
	out, err := fn(ctx)
	if err != nil {
		s.log.Warn("assistant call failed", "op", op, "err", err)
		return "", err
	}
	s.log.Debug("assistant call ok", "op", op, "chars", len(out))
	return out, nil
}

// Close tears the session down. Calls in flight finish first.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Info("assistant session closed")
	return s.backend.Close()
}
