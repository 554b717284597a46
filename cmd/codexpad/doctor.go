package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/codexpad/internal/appconfig"
	"pkt.systems/codexpad/internal/assistant"
	"pkt.systems/pslog"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	var probe bool
	var probeTimeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run codexpad diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			configPath := opts.configPath
			if strings.TrimSpace(configPath) == "" {
				path, err := appconfig.DefaultConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			logger.Info("doctor start", "config", configPath)
			cfg, err := appconfig.Load(opts.configPath)
			if err != nil {
				return err
			}
			logger.Info("doctor config ok", "provider", cfg.AI.Provider, "model", cfg.AI.Model)

			if cfg.Workspace.PersistSettings {
				if err := checkStateDir(cfg.StateDir); err != nil {
					return err
				}
				logger.Info("doctor state dir ok", "path", cfg.StateDir)
			} else {
				logger.Info("doctor state dir skipped", "reason", "persistence disabled")
			}

			if err := checkCredentials(cfg.AI); err != nil {
				return err
			}
			logger.Info("doctor credentials ok", "provider", cfg.AI.Provider)

			if !probe {
				return nil
			}
			return probeAssistant(cmd.Context(), cfg, probeTimeout, logger)
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "send a short request to the AI provider")
	cmd.Flags().DurationVar(&probeTimeout, "probe-timeout", 30*time.Second, "timeout for the provider probe")
	return cmd
}

func checkStateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("state_dir is required when persist_settings is enabled")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("state dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "doctor-*.tmp")
	if err != nil {
		return fmt.Errorf("state dir %s not writable: %w", dir, err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	return os.Remove(name)
}

func checkCredentials(cfg appconfig.AIConfig) error {
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), assistant.ProviderMock) {
		return nil
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return errors.New("ai.api_key is empty; set GEMINI_API_KEY or ai.api_key")
	}
	return nil
}

func probeAssistant(ctx context.Context, cfg appconfig.Config, timeout time.Duration, logger pslog.Logger) error {
	session, err := assistant.New(ctx, cfg.AssistantConfig(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()
	reply, err := session.Converse(probeCtx, "Reply with the single word: ready")
	if err != nil {
		return fmt.Errorf("assistant probe: %w", err)
	}
	logger.Info("doctor assistant probe ok", "duration_ms", time.Since(start).Milliseconds(), "reply_chars", len(reply))
	return nil
}
