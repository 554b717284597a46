package schema

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ServiceConfig defines defaults and limits for the workspace service.
type ServiceConfig struct {
	StateDir string
	// Profile names the preferences file inside StateDir.
	Profile      string
	Greeting     string
	DefaultTheme ThemeName
	// EditTimeout bounds a single AI transformation.
	EditTimeout time.Duration
	// ChatTimeout bounds a single chat turn.
	ChatTimeout time.Duration
	// DisablePersistence keeps settings in memory only.
	DisablePersistence bool
}

const (
	// DefaultGreeting seeds the chat transcript.
	DefaultGreeting = "Hello! I'm Codex. How can I help you with your document today?"
	// ChatErrorText is appended to the transcript when a chat turn fails.
	ChatErrorText = "Sorry, I encountered an error. Please try again."
	// DefaultProfile names the preferences profile when none is configured.
	DefaultProfile = "default"
	// DefaultEditTimeout is the default AI transformation timeout.
	DefaultEditTimeout = 60 * time.Second
	// DefaultChatTimeout is the default chat turn timeout.
	DefaultChatTimeout = 120 * time.Second
)

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.StateDir == "" && !cfg.DisablePersistence {
		home, err := os.UserHomeDir()
		if err != nil {
			return ServiceConfig{}, err
		}
		cfg.StateDir = filepath.Join(home, ".codexpad", "state")
	}
	if strings.TrimSpace(cfg.Profile) == "" {
		cfg.Profile = DefaultProfile
	}
	if strings.TrimSpace(cfg.Greeting) == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = DefaultTheme
	}
	theme, ok := NormalizeThemeName(string(cfg.DefaultTheme))
	if !ok {
		return ServiceConfig{}, ErrInvalidTheme
	}
	cfg.DefaultTheme = theme
	if cfg.EditTimeout <= 0 {
		cfg.EditTimeout = DefaultEditTimeout
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = DefaultChatTimeout
	}
	return cfg, nil
}
