package schema

// Workspace.

// GetWorkspaceRequest describes a request for the workspace snapshot.
type GetWorkspaceRequest struct{}

// GetWorkspaceResponse reports the workspace snapshot.
type GetWorkspaceResponse struct {
	Workspace WorkspaceSnapshot
}

// Document store.

// CreateDocumentRequest describes a request to create a document.
type CreateDocumentRequest struct{}

// CreateDocumentResponse reports the created document.
type CreateDocumentResponse struct {
	Document DocumentSnapshot
}

// GetDocumentRequest describes a request to read a document.
type GetDocumentRequest struct {
	DocumentID DocumentID
}

// GetDocumentResponse reports a document.
type GetDocumentResponse struct {
	Document DocumentSnapshot
}

// SelectDocumentRequest describes a request to open and activate a document.
type SelectDocumentRequest struct {
	DocumentID DocumentID
}

// SelectDocumentResponse reports the workspace after selection.
type SelectDocumentResponse struct {
	Workspace WorkspaceSnapshot
}

// UpdateContentRequest replaces a document's content.
type UpdateContentRequest struct {
	DocumentID DocumentID
	Content    string
}

// UpdateContentResponse reports whether the update was applied.
type UpdateContentResponse struct {
	Applied  bool
	Document DocumentSnapshot
}

// RenameDocumentRequest renames a document.
type RenameDocumentRequest struct {
	DocumentID DocumentID
	Name       DocumentName
}

// RenameDocumentResponse reports whether the rename was applied.
type RenameDocumentResponse struct {
	Applied  bool
	Document DocumentSnapshot
}

// DeleteDocumentRequest deletes a document. Callers confirm beforehand.
type DeleteDocumentRequest struct {
	DocumentID DocumentID
}

// DeleteDocumentResponse reports the workspace after deletion.
type DeleteDocumentResponse struct {
	Deleted   bool
	Workspace WorkspaceSnapshot
}

// CloseTabRequest closes a document tab without deleting the document.
type CloseTabRequest struct {
	DocumentID DocumentID
}

// CloseTabResponse reports the workspace after closing.
type CloseTabResponse struct {
	Closed    bool
	Workspace WorkspaceSnapshot
}

// Selection.

// CaptureSelectionRequest captures a selection in a document.
type CaptureSelectionRequest struct {
	DocumentID DocumentID
	Start      int
	End        int
	Layout     Layout
}

// CaptureSelectionResponse reports the captured selection, nil when blank.
type CaptureSelectionResponse struct {
	Selection *Selection
}

// ClearSelectionRequest invalidates the current selection.
type ClearSelectionRequest struct{}

// ClearSelectionResponse is empty.
type ClearSelectionResponse struct{}

// Edit pipeline.

// ApplyActionRequest applies an AI transformation to a selection.
// A nil Selection uses the workspace's current selection.
type ApplyActionRequest struct {
	DocumentID DocumentID
	Action     Action
	Selection  *Selection
}

// ApplyActionResponse reports the document after the action.
type ApplyActionResponse struct {
	Document DocumentSnapshot
	Applied  bool
	Diff     EditDiff
}

// Chat.

// SendChatRequest sends a chat turn.
type SendChatRequest struct {
	Text            string
	IncludeDocument bool
}

// SendChatResponse reports the user message and the reply or error entry.
type SendChatResponse struct {
	User  ChatMessage
	Reply ChatMessage
}

// GetTranscriptRequest describes a transcript read.
type GetTranscriptRequest struct{}

// GetTranscriptResponse reports the transcript.
type GetTranscriptResponse struct {
	Messages []ChatMessage
	Busy     bool
}

// InsertChatTextRequest appends text to the active document.
type InsertChatTextRequest struct {
	Text string
}

// InsertChatTextResponse reports the updated document.
type InsertChatTextResponse struct {
	Document DocumentSnapshot
}

// Export.

// ExportDocumentRequest serializes a document.
type ExportDocumentRequest struct {
	DocumentID DocumentID
	Format     ExportFormat
}

// ExportDocumentResponse carries the serialized document.
type ExportDocumentResponse struct {
	Export Export
}

// Settings.

// GetSettingsRequest describes a settings read.
type GetSettingsRequest struct{}

// GetSettingsResponse reports settings and theme.
type GetSettingsResponse struct {
	Settings Settings
	Theme    ThemeName
}

// UpdateSettingsRequest applies a partial settings update.
type UpdateSettingsRequest struct {
	Patch SettingsPatch
}

// UpdateSettingsResponse reports the new settings.
type UpdateSettingsResponse struct {
	Settings Settings
}

// SetThemeRequest selects the UI theme.
type SetThemeRequest struct {
	Theme ThemeName
}

// SetThemeResponse reports the selected theme.
type SetThemeResponse struct {
	Theme ThemeName
}
