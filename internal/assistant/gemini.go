package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// ErrEmptyResponse indicates the model returned no text.
var ErrEmptyResponse = errors.New("empty model response")

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey            string
	Model             string
	SystemInstruction string
}

// Gemini is a Backend on top of the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
	system string

	mu   sync.Mutex
	chat *genai.Chat
}

// NewGemini creates a Gemini backend. The chat is created lazily on the first turn.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	system := cfg.SystemInstruction
	if system == "" {
		system = SystemInstruction
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, system: system}, nil
}

// Generate runs a single prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp)
}

// Chat sends one message on the shared chat.
func (g *Gemini) Chat(ctx context.Context, message string) (string, error) {
	chat, err := g.chatSession(ctx)
	if err != nil {
		return "", err
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	return responseText(resp)
}

func (g *Gemini) chatSession(ctx context.Context) (*genai.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.chat != nil {
		return g.chat, nil
	}
	chat, err := g.client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.system, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini chat create: %w", err)
	}
	g.chat = chat
	return chat, nil
}

// Close forgets the chat history.
func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chat = nil
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
