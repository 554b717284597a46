package core

import (
	"context"
	"sync"
	"time"

	"pkt.systems/codexpad/internal/logx"
	"pkt.systems/codexpad/internal/persist"
	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

// service implements the workspace service.
type service struct {
	cfg          schema.ServiceConfig
	transformer  Transformer
	conversation Conversation
	sink         EventSink
	store        SettingsStore
	logger       pslog.Logger
	now          func() time.Time

	mu       sync.Mutex
	ws       *workspace
	chat     *transcript
	settings schema.Settings
	theme    schema.ThemeName
}

// NewService constructs the workspace service. The transcript is seeded
// with the configured greeting and preferences are loaded from the state dir.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	store := deps.SettingsStore
	if store == nil && cfg.StateDir != "" && !cfg.DisablePersistence {
		fileStore, err := persist.NewStoreWithLogger(cfg.StateDir, logger)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	s := &service{
		cfg:          cfg,
		transformer:  deps.Transformer,
		conversation: deps.Conversation,
		sink:         deps.EventSink,
		store:        store,
		logger:       logger,
		now:          now,
		ws:           newWorkspace(),
		settings:     schema.DefaultSettings(),
		theme:        cfg.DefaultTheme,
	}
	s.chat = newTranscript(cfg.Greeting, now())
	s.loadPreferences()
	return s, nil
}

func (s *service) GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error) {
	_ = ctx
	_ = req
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.GetWorkspaceResponse{Workspace: s.workspaceSnapshotLocked()}, nil
}

func (s *service) CreateDocument(ctx context.Context, req schema.CreateDocumentRequest) (schema.CreateDocumentResponse, error) {
	_ = req
	id := newDocumentID()
	log := logx.WithDocument(ctx, id)

	s.mu.Lock()
	hadSelection := s.ws.selection != nil
	doc := s.ws.create(id)
	snapshot := s.ws.documentSnapshot(doc)
	event := s.ws.event(schema.DocumentEventCreated, doc)
	s.mu.Unlock()

	s.emitDocumentEvent(event)
	if hadSelection {
		s.emitSelectionEvent(nil)
	}
	log.Info("service document created", "name", snapshot.Name)
	return schema.CreateDocumentResponse{Document: snapshot}, nil
}

func (s *service) GetDocument(ctx context.Context, req schema.GetDocumentRequest) (schema.GetDocumentResponse, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		return schema.GetDocumentResponse{}, schema.ErrDocumentNotFound
	}
	return schema.GetDocumentResponse{Document: s.ws.documentSnapshot(doc)}, nil
}

func (s *service) SelectDocument(ctx context.Context, req schema.SelectDocumentRequest) (schema.SelectDocumentResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	previous := s.ws.active
	hadSelection := s.ws.selection != nil
	if !s.ws.selectDocument(req.DocumentID) {
		snapshot := s.workspaceSnapshotLocked()
		s.mu.Unlock()
		log.Debug("service document select ignored", "reason", "unknown document")
		return schema.SelectDocumentResponse{Workspace: snapshot}, nil
	}
	event := s.ws.event(schema.DocumentEventSelected, s.ws.get(req.DocumentID))
	cleared := hadSelection && s.ws.selection == nil
	snapshot := s.workspaceSnapshotLocked()
	s.mu.Unlock()

	s.emitDocumentEvent(event)
	if cleared {
		s.emitSelectionEvent(nil)
	}
	log.Debug("service document selected", "previous", previous)
	return schema.SelectDocumentResponse{Workspace: snapshot}, nil
}

func (s *service) UpdateContent(ctx context.Context, req schema.UpdateContentRequest) (schema.UpdateContentResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	hadSelection := s.ws.selection != nil
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		s.mu.Unlock()
		log.Debug("service content update ignored", "reason", "unknown document")
		return schema.UpdateContentResponse{}, nil
	}
	changed := doc.Content != req.Content
	if !s.ws.updateContent(req.DocumentID, req.Content) {
		snapshot := s.ws.documentSnapshot(doc)
		s.mu.Unlock()
		log.Debug("service content update ignored", "active", snapshot.Active, "pending", doc.pending)
		return schema.UpdateContentResponse{Document: snapshot}, nil
	}
	snapshot := s.ws.documentSnapshot(doc)
	event := s.ws.event(schema.DocumentEventUpdated, doc)
	cleared := hadSelection && s.ws.selection == nil
	s.mu.Unlock()

	if changed {
		s.emitDocumentEvent(event)
	}
	if cleared {
		s.emitSelectionEvent(nil)
	}
	log.Trace("service content updated", "characters", snapshot.Characters)
	return schema.UpdateContentResponse{Applied: true, Document: snapshot}, nil
}

func (s *service) RenameDocument(ctx context.Context, req schema.RenameDocumentRequest) (schema.RenameDocumentResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		s.mu.Unlock()
		log.Debug("service document rename ignored", "reason", "unknown document")
		return schema.RenameDocumentResponse{}, nil
	}
	if !s.ws.rename(req.DocumentID, string(req.Name)) {
		snapshot := s.ws.documentSnapshot(doc)
		s.mu.Unlock()
		log.Debug("service document rename ignored", "reason", "empty name")
		return schema.RenameDocumentResponse{Document: snapshot}, nil
	}
	snapshot := s.ws.documentSnapshot(doc)
	event := s.ws.event(schema.DocumentEventRenamed, doc)
	s.mu.Unlock()

	s.emitDocumentEvent(event)
	log.Info("service document renamed", "name", snapshot.Name)
	return schema.RenameDocumentResponse{Applied: true, Document: snapshot}, nil
}

func (s *service) DeleteDocument(ctx context.Context, req schema.DeleteDocumentRequest) (schema.DeleteDocumentResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	hadSelection := s.ws.selection != nil
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		snapshot := s.workspaceSnapshotLocked()
		s.mu.Unlock()
		log.Debug("service document delete ignored", "reason", "unknown document")
		return schema.DeleteDocumentResponse{Workspace: snapshot}, nil
	}
	s.ws.remove(req.DocumentID)
	event := s.ws.event(schema.DocumentEventDeleted, doc)
	event.Document.Open = false
	cleared := hadSelection && s.ws.selection == nil
	snapshot := s.workspaceSnapshotLocked()
	s.mu.Unlock()

	s.emitDocumentEvent(event)
	if cleared {
		s.emitSelectionEvent(nil)
	}
	log.Info("service document deleted", "active", snapshot.Active, "open", len(snapshot.Open))
	return schema.DeleteDocumentResponse{Deleted: true, Workspace: snapshot}, nil
}

func (s *service) CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	hadSelection := s.ws.selection != nil
	if !s.ws.closeTab(req.DocumentID) {
		snapshot := s.workspaceSnapshotLocked()
		s.mu.Unlock()
		log.Debug("service tab close ignored", "reason", "not open")
		return schema.CloseTabResponse{Workspace: snapshot}, nil
	}
	event := s.ws.event(schema.DocumentEventClosed, s.ws.get(req.DocumentID))
	cleared := hadSelection && s.ws.selection == nil
	snapshot := s.workspaceSnapshotLocked()
	s.mu.Unlock()

	s.emitDocumentEvent(event)
	if cleared {
		s.emitSelectionEvent(nil)
	}
	log.Info("service tab closed", "active", snapshot.Active, "open", len(snapshot.Open))
	return schema.CloseTabResponse{Closed: true, Workspace: snapshot}, nil
}

func (s *service) CaptureSelection(ctx context.Context, req schema.CaptureSelectionRequest) (schema.CaptureSelectionResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		s.mu.Unlock()
		return schema.CaptureSelectionResponse{}, schema.ErrDocumentNotFound
	}
	if doc.ID != s.ws.active {
		s.mu.Unlock()
		return schema.CaptureSelectionResponse{}, schema.ErrDocumentNotActive
	}
	if doc.pending {
		s.mu.Unlock()
		log.Debug("service selection capture rejected", "reason", "edit pending")
		return schema.CaptureSelectionResponse{}, schema.ErrEditPending
	}
	s.ws.selection = CaptureSelection(doc.ID, doc.Content, req.Start, req.End, req.Layout)
	if s.ws.selection != nil {
		s.ws.selection.Activation = s.ws.activations
	}
	sel := s.ws.currentSelection()
	s.mu.Unlock()

	s.emitSelectionEvent(sel)
	if sel == nil {
		log.Trace("service selection blank")
	} else {
		logx.WithSelection(log, sel).Trace("service selection captured")
	}
	return schema.CaptureSelectionResponse{Selection: sel}, nil
}

func (s *service) ClearSelection(ctx context.Context, req schema.ClearSelectionRequest) (schema.ClearSelectionResponse, error) {
	_ = req
	s.mu.Lock()
	had := s.ws.selection != nil
	s.ws.selection = nil
	s.mu.Unlock()
	if had {
		s.emitSelectionEvent(nil)
		logx.Ctx(ctx).Trace("service selection cleared")
	}
	return schema.ClearSelectionResponse{}, nil
}

func (s *service) ExportDocument(ctx context.Context, req schema.ExportDocumentRequest) (schema.ExportDocumentResponse, error) {
	log := logx.WithDocument(ctx, req.DocumentID)

	s.mu.Lock()
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		s.mu.Unlock()
		return schema.ExportDocumentResponse{}, schema.ErrDocumentNotFound
	}
	id, name, content := doc.ID, doc.Name, doc.Content
	s.mu.Unlock()

	out, err := ExportDocument(id, name, content, req.Format)
	if err != nil {
		log.Warn("service export failed", "format", req.Format, "err", err)
		return schema.ExportDocumentResponse{}, err
	}
	log.Info("service document exported", "format", req.Format, "bytes", len(out.Data))
	return schema.ExportDocumentResponse{Export: out}, nil
}

func (s *service) workspaceSnapshotLocked() schema.WorkspaceSnapshot {
	return schema.WorkspaceSnapshot{
		Documents: s.ws.documentSnapshots(),
		Open:      s.ws.openIDs(),
		Active:    s.ws.active,
		Selection: s.ws.currentSelection(),
		Settings:  s.settings,
		Theme:     s.theme,
		ChatBusy:  s.chat.pending,
	}
}

func (s *service) emitDocumentEvent(event schema.DocumentEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnDocumentEvent(event)
}

func (s *service) emitSelectionEvent(sel *schema.Selection) {
	if s.sink == nil {
		return
	}
	s.sink.OnSelectionEvent(schema.SelectionEvent{Selection: sel})
}

func (s *service) emitEditEvent(event schema.EditEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnEditEvent(event)
}

func (s *service) emitChatEvent(event schema.ChatEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnChatEvent(event)
}

func (s *service) emitSettingsEvent(event schema.SettingsEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnSettingsEvent(event)
}
