package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Mock is an offline Backend with deterministic answers, for local runs
// without credentials.
type Mock struct {
	mu    sync.Mutex
	turns int
}

// NewMock returns an offline backend.
func NewMock() *Mock {
	return &Mock{}
}

// Generate applies a cheap local rewrite matching the instruction in prompt.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text := quotedPayload(prompt)
	switch {
	case strings.HasPrefix(prompt, "Summarize"):
		return firstSentence(text), nil
	case strings.HasPrefix(prompt, "Fix"):
		return strings.Join(strings.Fields(text), " "), nil
	case strings.HasPrefix(prompt, "Improve"):
		return polish(text), nil
	default:
		return text, nil
	}
}

// Chat echoes the message with a running turn number.
func (m *Mock) Chat(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.turns++
	turn := m.turns
	m.mu.Unlock()
	query := message
	if idx := strings.LastIndex(message, "USER QUERY:\n"); idx >= 0 {
		query = message[idx+len("USER QUERY:\n"):]
	}
	return fmt.Sprintf("(offline reply %d) %s", turn, strings.TrimSpace(query)), nil
}

// Close resets the conversation.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = 0
	return nil
}

func quotedPayload(prompt string) string {
	idx := strings.Index(prompt, "\n\n\"")
	if idx < 0 {
		return prompt
	}
	body := prompt[idx+3:]
	return strings.TrimSuffix(body, "\"")
}

func firstSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	if idx := strings.IndexAny(trimmed, ".!?"); idx >= 0 {
		return trimmed[:idx+1]
	}
	return trimmed
}

func polish(text string) string {
	trimmed := strings.Join(strings.Fields(text), " ")
	if trimmed == "" {
		return trimmed
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	trimmed = string(unicode.ToUpper(r)) + trimmed[size:]
	if !strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?") {
		trimmed += "."
	}
	return trimmed
}
