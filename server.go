package codexpad

import (
	"context"
	"errors"
	"sync"

	"pkt.systems/codexpad/core"
	"pkt.systems/codexpad/httpapi"
	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

// Server composes the workspace service, the AI session and the HTTP API.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// Assistant is the owned AI session. It serves both edit transformations and
// chat, and is closed when the server stops.
type Assistant interface {
	core.Transformer
	core.Conversation
	Close() error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	Service    schema.ServiceConfig
	HTTP       httpapi.Config
	HubHistory int
}

// ServerDeps captures dependencies required to build the server.
type ServerDeps struct {
	ServiceDeps core.ServiceDeps
	Assistant   Assistant
}

// New constructs a codexpad server.
func New(cfg ServerConfig, deps ServerDeps) (Server, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg.Service)
	if err != nil {
		return nil, err
	}
	cfg.Service = normalized

	serviceDeps := deps.ServiceDeps
	if deps.Assistant != nil {
		if serviceDeps.Transformer == nil {
			serviceDeps.Transformer = deps.Assistant
		}
		if serviceDeps.Conversation == nil {
			serviceDeps.Conversation = deps.Assistant
		}
	}

	hub := httpapi.NewHub(cfg.HubHistory, serviceDeps.Logger)
	if serviceDeps.EventSink == nil {
		serviceDeps.EventSink = hub
	} else {
		serviceDeps.EventSink = eventFanout{sinks: []core.EventSink{serviceDeps.EventSink, hub}}
	}

	service, err := core.NewService(cfg.Service, serviceDeps)
	if err != nil {
		return nil, err
	}

	return &compositeServer{
		cfg:       cfg,
		httpSrv:   httpapi.NewServer(cfg.HTTP, service, hub),
		assistant: deps.Assistant,
	}, nil
}

type compositeServer struct {
	cfg       ServerConfig
	httpSrv   *httpapi.Server
	assistant Assistant
	logger    pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	started bool
	closed  bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.errCh = make(chan error, 1)
	s.started = true
	s.logger = pslog.Ctx(s.ctx)
	s.mu.Unlock()

	log := s.logger
	log.Info(
		"server start",
		"http_addr", s.cfg.HTTP.Addr,
		"http_public_url", s.httpSrv.PublicURL(),
		"assistant", s.assistant != nil,
		"persistence", s.cfg.Service.StateDir != "" && !s.cfg.Service.DisablePersistence,
	)
	go func() {
		if err := httpapi.ListenAndServe(s.ctx, s.cfg.HTTP.Addr, s.httpSrv.Handler(), s.cfg.HTTP.ShutdownTimeout); err != nil {
			log.Error("http server failed", "err", err)
			s.errCh <- err
		}
	}()
	return nil
}

func (s *compositeServer) Wait() error {
	s.mu.Lock()
	ctx := s.ctx
	errCh := s.errCh
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			pslog.Ctx(ctx).Error("server stopped", "err", err)
			_ = s.Stop(context.Background())
			return err
		}
		return nil
	}
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	alreadyClosed := s.closed
	s.closed = true
	log := s.logger
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested")
	if cancel != nil {
		cancel()
	}
	if s.assistant == nil || alreadyClosed {
		log.Info("server stopped")
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// Close waits for in-flight AI calls; the stop deadline still wins.
	closed := make(chan error, 1)
	go func() {
		closed <- s.assistant.Close()
	}()
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err(), "waiting_for", "assistant")
		return ctx.Err()
	case err := <-closed:
		if err != nil {
			log.Warn("server assistant close failed", "err", err)
		} else {
			log.Info("server assistant closed")
		}
	}
	log.Info("server stopped")
	return nil
}
