package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/codexpad/core"
	"pkt.systems/codexpad/internal/logx"
	"pkt.systems/codexpad/schema"
)

const maxBodyBytes = 8 << 20

// Server serves the HTTP JSON API and the event stream.
type Server struct {
	cfg      Config
	service  core.Service
	hub      *Hub
	basePath string
}

// NewServer constructs an HTTP server.
func NewServer(cfg Config, service core.Service, hub *Hub) *Server {
	return &Server{
		cfg:      cfg,
		service:  service,
		hub:      hub,
		basePath: normalizeBasePath(cfg.BasePath),
	}
}

// PublicURL reports where the API is reachable, when a base URL or path is configured.
func (s *Server) PublicURL() string {
	return publicURL(s.cfg.BaseURL, s.cfg.BasePath)
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/workspace", s.handleWorkspace)
	mux.HandleFunc("POST /api/documents", s.handleCreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/select", s.handleSelectDocument)
	mux.HandleFunc("POST /api/documents/{id}/close", s.handleCloseTab)
	mux.HandleFunc("PUT /api/documents/{id}/content", s.handleUpdateContent)
	mux.HandleFunc("PUT /api/documents/{id}/name", s.handleRename)
	mux.HandleFunc("POST /api/documents/{id}/selection", s.handleCaptureSelection)
	mux.HandleFunc("DELETE /api/selection", s.handleClearSelection)
	mux.HandleFunc("POST /api/documents/{id}/actions", s.handleApplyAction)
	mux.HandleFunc("GET /api/documents/{id}/export", s.handleExport)

	mux.HandleFunc("GET /api/chat", s.handleTranscript)
	mux.HandleFunc("POST /api/chat", s.handleSendChat)
	mux.HandleFunc("POST /api/chat/insert", s.handleInsertChat)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PATCH /api/settings", s.handleUpdateSettings)
	mux.HandleFunc("PUT /api/theme", s.handleSetTheme)

	mux.HandleFunc("GET /api/stream", s.handleStream)

	return mountAt(s.basePath, withRequestLogging(mux))
}

type workspaceResponse struct {
	Workspace schema.WorkspaceSnapshot `json:"workspace"`
}

type documentResponse struct {
	Document schema.DocumentSnapshot `json:"document"`
}

type appliedResponse struct {
	Applied  bool                    `json:"applied"`
	Document schema.DocumentSnapshot `json:"document"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetWorkspace(r.Context(), schema.GetWorkspaceRequest{})
	if err != nil {
		s.fail(w, r, "http workspace failed", err)
		return
	}
	writeJSON(w, http.StatusOK, workspaceResponse{Workspace: resp.Workspace})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.CreateDocument(r.Context(), schema.CreateDocumentRequest{})
	if err != nil {
		s.fail(w, r, "http document create failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, documentResponse{Document: resp.Document})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	resp, err := s.service.GetDocument(r.Context(), schema.GetDocumentRequest{DocumentID: id})
	if err != nil {
		s.fail(w, r, "http document get failed", err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Document: resp.Document})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	ctx := r.Context()
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		logx.Ctx(ctx).Info("http document delete rejected", "reason", "not confirmed")
		writeError(w, http.StatusPreconditionRequired, errors.New("delete requires confirm=true"))
		return
	}
	resp, err := s.service.DeleteDocument(ctx, schema.DeleteDocumentRequest{DocumentID: id})
	if err != nil {
		s.fail(w, r, "http document delete failed", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Deleted   bool                     `json:"deleted"`
		Workspace schema.WorkspaceSnapshot `json:"workspace"`
	}{resp.Deleted, resp.Workspace})
}

func (s *Server) handleSelectDocument(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	resp, err := s.service.SelectDocument(r.Context(), schema.SelectDocumentRequest{DocumentID: id})
	if err != nil {
		s.fail(w, r, "http document select failed", err)
		return
	}
	writeJSON(w, http.StatusOK, workspaceResponse{Workspace: resp.Workspace})
}

func (s *Server) handleCloseTab(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	resp, err := s.service.CloseTab(r.Context(), schema.CloseTabRequest{DocumentID: id})
	if err != nil {
		s.fail(w, r, "http tab close failed", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Closed    bool                     `json:"closed"`
		Workspace schema.WorkspaceSnapshot `json:"workspace"`
	}{resp.Closed, resp.Workspace})
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	var payload struct {
		Content string `json:"content"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.UpdateContent(r.Context(), schema.UpdateContentRequest{DocumentID: id, Content: payload.Content})
	if err != nil {
		s.fail(w, r, "http content update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, appliedResponse{Applied: resp.Applied, Document: resp.Document})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	var payload struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.RenameDocument(r.Context(), schema.RenameDocumentRequest{DocumentID: id, Name: schema.DocumentName(payload.Name)})
	if err != nil {
		s.fail(w, r, "http document rename failed", err)
		return
	}
	writeJSON(w, http.StatusOK, appliedResponse{Applied: resp.Applied, Document: resp.Document})
}

func (s *Server) handleCaptureSelection(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	var payload struct {
		Start  int           `json:"start"`
		End    int           `json:"end"`
		Layout schema.Layout `json:"layout"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.CaptureSelection(r.Context(), schema.CaptureSelectionRequest{
		DocumentID: id,
		Start:      payload.Start,
		End:        payload.End,
		Layout:     payload.Layout,
	})
	if err != nil {
		s.fail(w, r, "http selection capture failed", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Selection *schema.Selection `json:"selection"`
	}{resp.Selection})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.ClearSelection(r.Context(), schema.ClearSelectionRequest{}); err != nil {
		s.fail(w, r, "http selection clear failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	var payload struct {
		Action    string            `json:"action"`
		Selection *schema.Selection `json:"selection,omitempty"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.ApplyAction(r.Context(), schema.ApplyActionRequest{
		DocumentID: id,
		Action:     schema.Action(payload.Action),
		Selection:  payload.Selection,
	})
	if err != nil {
		s.fail(w, r, "http action failed", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Applied  bool                    `json:"applied"`
		Document schema.DocumentSnapshot `json:"document"`
		Diff     schema.EditDiff         `json:"diff"`
	}{resp.Applied, resp.Document, resp.Diff})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r, id := documentRequest(r)
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(schema.ExportText)
	}
	resp, err := s.service.ExportDocument(r.Context(), schema.ExportDocumentRequest{DocumentID: id, Format: schema.ExportFormat(format)})
	if err != nil {
		s.fail(w, r, "http export failed", err)
		return
	}
	export := resp.Export
	w.Header().Set("Content-Type", export.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetTranscript(r.Context(), schema.GetTranscriptRequest{})
	if err != nil {
		s.fail(w, r, "http chat transcript failed", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Messages []schema.ChatMessage `json:"messages"`
		Busy     bool                 `json:"busy"`
	}{resp.Messages, resp.Busy})
}

func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text            string `json:"text"`
		IncludeDocument bool   `json:"includeDocument"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.SendChat(r.Context(), schema.SendChatRequest{Text: payload.Text, IncludeDocument: payload.IncludeDocument})
	if err != nil {
		s.fail(w, r, "http chat send failed", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		User  schema.ChatMessage `json:"user"`
		Reply schema.ChatMessage `json:"reply"`
	}{resp.User, resp.Reply})
}

func (s *Server) handleInsertChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.InsertChatText(r.Context(), schema.InsertChatTextRequest{Text: payload.Text})
	if err != nil {
		s.fail(w, r, "http chat insert failed", err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Document: resp.Document})
}

type settingsResponse struct {
	Settings schema.Settings  `json:"settings"`
	Theme    schema.ThemeName `json:"theme,omitempty"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetSettings(r.Context(), schema.GetSettingsRequest{})
	if err != nil {
		s.fail(w, r, "http settings get failed", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: resp.Settings, Theme: resp.Theme})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch schema.SettingsPatch
	if !s.decode(w, r, &patch) {
		return
	}
	resp, err := s.service.UpdateSettings(r.Context(), schema.UpdateSettingsRequest{Patch: patch})
	if err != nil {
		s.fail(w, r, "http settings update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: resp.Settings})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	resp, err := s.service.SetTheme(r.Context(), schema.SetThemeRequest{Theme: schema.ThemeName(payload.Theme)})
	if err != nil {
		s.fail(w, r, "http theme set failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"theme": resp.Theme})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	log := logx.Ctx(r.Context())
	ctx := r.Context()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	lastID := parseUint(r.Header.Get("Last-Event-ID"))

	ch, unsubscribe, seq := s.hub.Subscribe()
	defer unsubscribe()

	snapshot := s.buildSnapshot(ctx)
	_ = writeSSEvent(w, StreamEvent{
		Type:      streamEventSnapshot,
		Snapshot:  &snapshot,
		Timestamp: time.Now(),
	})

	replayCount := 0
	if lastID > 0 {
		replay := s.hub.Replay(lastID, seq)
		replayCount = len(replay)
		for _, event := range replay {
			_ = writeSSEvent(w, event)
		}
	}
	flusher.Flush()

	log.Info("http stream opened", "last_id", lastID, "replay", replayCount, "documents", len(snapshot.Workspace.Documents))
	for {
		select {
		case <-ctx.Done():
			log.Info("http stream closed")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			_ = writeSSEvent(w, event)
			flusher.Flush()
		}
	}
}

func (s *Server) buildSnapshot(ctx context.Context) SnapshotPayload {
	var payload SnapshotPayload
	if resp, err := s.service.GetWorkspace(ctx, schema.GetWorkspaceRequest{}); err == nil {
		payload.Workspace = resp.Workspace
	}
	if resp, err := s.service.GetTranscript(ctx, schema.GetTranscriptRequest{}); err == nil {
		payload.Messages = resp.Messages
	}
	return payload
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), target); err != nil {
		logx.Ctx(r.Context()).Warn("http decode failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", schema.ErrInvalidRequest, err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	log := logx.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Warn(msg, "status", status, "err", err)
	} else {
		log.Info(msg, "status", status, "err", err)
	}
	writeError(w, status, err)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrStaleSelection),
		errors.Is(err, schema.ErrEditPending),
		errors.Is(err, schema.ErrChatBusy),
		errors.Is(err, schema.ErrDocumentNotActive):
		return http.StatusConflict
	case errors.Is(err, schema.ErrTransformFailed):
		return http.StatusBadGateway
	case errors.Is(err, schema.ErrAssistantUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, schema.ErrInvalidRequest),
		errors.Is(err, schema.ErrNoActiveDocument),
		errors.Is(err, schema.ErrNoSelection),
		errors.Is(err, schema.ErrInvalidAction),
		errors.Is(err, schema.ErrEmptyMessage),
		errors.Is(err, schema.ErrInvalidFormat),
		errors.Is(err, schema.ErrInvalidSettings),
		errors.Is(err, schema.ErrInvalidTheme),
		errors.Is(err, schema.ErrInvalidModel):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func documentID(r *http.Request) schema.DocumentID {
	return schema.DocumentID(strings.TrimSpace(r.PathValue("id")))
}

// documentRequest binds the path document id to the request logger.
func documentRequest(r *http.Request) (*http.Request, schema.DocumentID) {
	id := documentID(r)
	if id == "" {
		return r, id
	}
	ctx := logx.ContextWithDocumentLogger(r.Context(), logx.WithDocument(r.Context(), id), id)
	return r.WithContext(ctx), id
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeSSEvent(w http.ResponseWriter, event StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Seq > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", event.Seq)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", event.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return nil
}

func parseUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
