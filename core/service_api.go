package core

import (
	"context"

	"pkt.systems/codexpad/schema"
)

// Service is the transport-agnostic API for the document workspace, its
// selection-anchored AI edits and the assistant chat.
type Service interface {
	GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error)
	CreateDocument(ctx context.Context, req schema.CreateDocumentRequest) (schema.CreateDocumentResponse, error)
	GetDocument(ctx context.Context, req schema.GetDocumentRequest) (schema.GetDocumentResponse, error)
	SelectDocument(ctx context.Context, req schema.SelectDocumentRequest) (schema.SelectDocumentResponse, error)
	UpdateContent(ctx context.Context, req schema.UpdateContentRequest) (schema.UpdateContentResponse, error)
	RenameDocument(ctx context.Context, req schema.RenameDocumentRequest) (schema.RenameDocumentResponse, error)
	DeleteDocument(ctx context.Context, req schema.DeleteDocumentRequest) (schema.DeleteDocumentResponse, error)
	CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error)
	CaptureSelection(ctx context.Context, req schema.CaptureSelectionRequest) (schema.CaptureSelectionResponse, error)
	ClearSelection(ctx context.Context, req schema.ClearSelectionRequest) (schema.ClearSelectionResponse, error)
	ApplyAction(ctx context.Context, req schema.ApplyActionRequest) (schema.ApplyActionResponse, error)
	SendChat(ctx context.Context, req schema.SendChatRequest) (schema.SendChatResponse, error)
	GetTranscript(ctx context.Context, req schema.GetTranscriptRequest) (schema.GetTranscriptResponse, error)
	InsertChatText(ctx context.Context, req schema.InsertChatTextRequest) (schema.InsertChatTextResponse, error)
	ExportDocument(ctx context.Context, req schema.ExportDocumentRequest) (schema.ExportDocumentResponse, error)
	GetSettings(ctx context.Context, req schema.GetSettingsRequest) (schema.GetSettingsResponse, error)
	UpdateSettings(ctx context.Context, req schema.UpdateSettingsRequest) (schema.UpdateSettingsResponse, error)
	SetTheme(ctx context.Context, req schema.SetThemeRequest) (schema.SetThemeResponse, error)
}
