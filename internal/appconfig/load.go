package appconfig

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"pkt.systems/codexpad/internal/assistant"
	"pkt.systems/codexpad/schema"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("state_dir", cfg.StateDir)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_url", cfg.HTTP.BaseURL)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("http.shutdown_timeout_seconds", cfg.HTTP.ShutdownTimeoutSeconds)
	v.SetDefault("http.event_history", cfg.HTTP.EventHistory)
	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.api_key", cfg.AI.APIKey)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.requests_per_minute", cfg.AI.RequestsPerMinute)
	v.SetDefault("ai.burst", cfg.AI.Burst)
	v.SetDefault("ai.edit_timeout_seconds", cfg.AI.EditTimeoutSeconds)
	v.SetDefault("ai.chat_timeout_seconds", cfg.AI.ChatTimeoutSeconds)
	v.SetDefault("workspace.profile", cfg.Workspace.Profile)
	v.SetDefault("workspace.greeting", cfg.Workspace.Greeting)
	v.SetDefault("workspace.default_theme", cfg.Workspace.DefaultTheme)
	v.SetDefault("workspace.persist_settings", cfg.Workspace.PersistSettings)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateHTTPConfig(cfg.HTTP); err != nil {
		return Config{}, err
	}
	if err := validateAIConfig(cfg.AI); err != nil {
		return Config{}, err
	}
	if _, ok := schema.NormalizeThemeName(cfg.Workspace.DefaultTheme); !ok {
		return Config{}, fmt.Errorf("unsupported workspace.default_theme %q", cfg.Workspace.DefaultTheme)
	}
	return cfg, nil
}

// ServiceConfig maps the file config onto the workspace service config.
func (c Config) ServiceConfig() schema.ServiceConfig {
	return schema.ServiceConfig{
		StateDir:           c.StateDir,
		Profile:            c.Workspace.Profile,
		Greeting:           c.Workspace.Greeting,
		DefaultTheme:       schema.ThemeName(c.Workspace.DefaultTheme),
		EditTimeout:        time.Duration(c.AI.EditTimeoutSeconds) * time.Second,
		ChatTimeout:        time.Duration(c.AI.ChatTimeoutSeconds) * time.Second,
		DisablePersistence: !c.Workspace.PersistSettings,
	}
}

// AssistantConfig maps the file config onto the assistant session config.
func (c Config) AssistantConfig() assistant.Config {
	return assistant.Config{
		Provider:          c.AI.Provider,
		APIKey:            c.AI.APIKey,
		Model:             c.AI.Model,
		RequestsPerMinute: c.AI.RequestsPerMinute,
		Burst:             c.AI.Burst,
	}
}

func validateHTTPConfig(cfg HTTPConfig) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("http.base_url must include scheme and host (e.g. https://example.com)")
		}
	}
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath != "" {
		if strings.Contains(basePath, "://") {
			return fmt.Errorf("http.base_path must be a path prefix, not a URL")
		}
		if strings.ContainsAny(basePath, "?#") {
			return fmt.Errorf("http.base_path must not include query or fragment")
		}
	}
	return nil
}

func validateAIConfig(cfg AIConfig) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case assistant.ProviderGemini:
		if _, err := schema.NormalizeModelID(cfg.Model); err != nil {
			return fmt.Errorf("ai.model %q is invalid", cfg.Model)
		}
	case assistant.ProviderMock:
	default:
		return fmt.Errorf("unsupported ai.provider %q", cfg.Provider)
	}
	if cfg.RequestsPerMinute < 0 {
		return fmt.Errorf("ai.requests_per_minute must not be negative")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.StateDir = expandEnv(cfg.StateDir)
	cfg.AI.APIKey = expandSecret(cfg.AI.APIKey)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

// expandSecret drops unset variables so a missing key reads as empty.
func expandSecret(value string) string {
	if value == "" {
		return value
	}
	return strings.TrimSpace(os.Expand(value, func(key string) string {
		val, _ := lookupEnv(key)
		return val
	}))
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
