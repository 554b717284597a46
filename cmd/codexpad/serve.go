package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/codexpad"
	"pkt.systems/codexpad/core"
	"pkt.systems/codexpad/httpapi"
	"pkt.systems/codexpad/internal/appconfig"
	"pkt.systems/codexpad/internal/assistant"
	"pkt.systems/pslog"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var provider string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the codexpad HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(opts.configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			if provider != "" {
				cfg.AI.Provider = provider
			}

			var asst codexpad.Assistant
			session, err := assistant.New(cmd.Context(), cfg.AssistantConfig(), logger)
			if err != nil {
				logger.Warn("assistant unavailable; edits and chat are disabled", "provider", cfg.AI.Provider, "err", err)
			} else {
				asst = session
				logger.Info("assistant ready", "provider", cfg.AI.Provider, "model", cfg.AI.Model, "rpm", cfg.AI.RequestsPerMinute)
			}

			serverCfg := codexpad.ServerConfig{
				Service:    cfg.ServiceConfig(),
				HTTP:       toHTTPConfig(cfg.HTTP),
				HubHistory: cfg.HTTP.EventHistory,
			}
			server, err := codexpad.New(serverCfg, codexpad.ServerDeps{
				ServiceDeps: core.ServiceDeps{Logger: logger},
				Assistant:   asst,
			})
			if err != nil {
				if asst != nil {
					_ = asst.Close()
				}
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			logger.Info("http server listening", "addr", serverCfg.HTTP.Addr)
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override http.addr")
	cmd.Flags().StringVar(&provider, "provider", "", "override ai.provider (gemini or mock)")
	return cmd
}

func toHTTPConfig(cfg appconfig.HTTPConfig) httpapi.Config {
	return httpapi.Config{
		Addr:            cfg.Addr,
		BaseURL:         cfg.BaseURL,
		BasePath:        cfg.BasePath,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second,
	}
}
