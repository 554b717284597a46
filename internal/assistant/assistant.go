package assistant

import (
	"context"
	"fmt"
	"strings"

	"pkt.systems/pslog"
)

const (
	// ProviderGemini talks to the Gemini API.
	ProviderGemini = "gemini"
	// ProviderMock answers locally without network access.
	ProviderMock = "mock"
)

// Config selects and configures the backend of a Session.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	SystemInstruction string
	RequestsPerMinute int
	Burst             int
}

// New opens a Session for the configured provider.
func New(ctx context.Context, cfg Config, logger pslog.Logger) (*Session, error) {
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	var backend Backend
	switch provider {
	case "", ProviderGemini:
		gemini, err := NewGemini(ctx, GeminiConfig{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			SystemInstruction: cfg.SystemInstruction,
		})
		if err != nil {
			return nil, err
		}
		backend = gemini
		provider = ProviderGemini
	case ProviderMock:
		backend = NewMock()
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
	logger = logger.With("ai_provider", provider)
	logger.Info("assistant session opened", "model", cfg.Model, "rpm", cfg.RequestsPerMinute)
	return NewSession(backend, Options{
		RequestsPerMinute: cfg.RequestsPerMinute,
		Burst:             cfg.Burst,
		Logger:            logger,
	}), nil
}
