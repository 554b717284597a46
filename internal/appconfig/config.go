package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/codexpad/internal/assistant"
	"pkt.systems/codexpad/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int             `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string          `mapstructure:"state_dir" yaml:"state_dir"`
	HTTP          HTTPConfig      `mapstructure:"http" yaml:"http"`
	AI            AIConfig        `mapstructure:"ai" yaml:"ai"`
	Workspace     WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr                   string `mapstructure:"addr" yaml:"addr"`
	BaseURL                string `mapstructure:"base_url" yaml:"base_url"`
	BasePath               string `mapstructure:"base_path" yaml:"base_path"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	EventHistory           int    `mapstructure:"event_history" yaml:"event_history"`
}

// AIConfig configures the assistant session.
type AIConfig struct {
	Provider           string `mapstructure:"provider" yaml:"provider"`
	APIKey             string `mapstructure:"api_key" yaml:"api_key"`
	Model              string `mapstructure:"model" yaml:"model"`
	RequestsPerMinute  int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Burst              int    `mapstructure:"burst" yaml:"burst"`
	EditTimeoutSeconds int    `mapstructure:"edit_timeout_seconds" yaml:"edit_timeout_seconds"`
	ChatTimeoutSeconds int    `mapstructure:"chat_timeout_seconds" yaml:"chat_timeout_seconds"`
}

// WorkspaceConfig controls workspace defaults.
type WorkspaceConfig struct {
	Profile         string `mapstructure:"profile" yaml:"profile"`
	Greeting        string `mapstructure:"greeting" yaml:"greeting"`
	DefaultTheme    string `mapstructure:"default_theme" yaml:"default_theme"`
	PersistSettings bool   `mapstructure:"persist_settings" yaml:"persist_settings"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".codexpad", "state"),
		HTTP: HTTPConfig{
			Addr:                   ":27490",
			BaseURL:                "",
			BasePath:               "",
			ShutdownTimeoutSeconds: 5,
			EventHistory:           256,
		},
		AI: AIConfig{
			Provider:           assistant.ProviderGemini,
			APIKey:             "${GEMINI_API_KEY}",
			Model:              assistant.DefaultModel,
			RequestsPerMinute:  30,
			Burst:              3,
			EditTimeoutSeconds: int(schema.DefaultEditTimeout.Seconds()),
			ChatTimeoutSeconds: int(schema.DefaultChatTimeout.Seconds()),
		},
		Workspace: WorkspaceConfig{
			Profile:         schema.DefaultProfile,
			Greeting:        schema.DefaultGreeting,
			DefaultTheme:    string(schema.DefaultTheme),
			PersistSettings: true,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".codexpad", "config.yaml"), nil
}
