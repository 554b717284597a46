package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDocumentNotFound indicates a requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrDocumentNotActive indicates the operation targets a document other than the active one.
	ErrDocumentNotActive = errors.New("document is not active")
	// ErrNoActiveDocument indicates an operation needs an active document.
	ErrNoActiveDocument = errors.New("no active document")
	// ErrNoSelection indicates no selection has been captured.
	ErrNoSelection = errors.New("no selection")
	// ErrStaleSelection indicates the selection no longer matches the content it was captured from.
	ErrStaleSelection = errors.New("stale selection")
	// ErrEditPending indicates a transformation is already in flight for the document.
	ErrEditPending = errors.New("edit already pending")
	// ErrInvalidAction indicates an unknown edit action.
	ErrInvalidAction = errors.New("invalid action")
	// ErrTransformFailed indicates the AI transformation failed; content was left unchanged.
	ErrTransformFailed = errors.New("transform failed")
	// ErrChatBusy indicates a chat turn is already in flight.
	ErrChatBusy = errors.New("chat is busy")
	// ErrEmptyMessage indicates the chat message was empty.
	ErrEmptyMessage = errors.New("empty message")
	// ErrInvalidFormat indicates an unsupported export format.
	ErrInvalidFormat = errors.New("invalid export format")
	// ErrInvalidSettings indicates a settings value outside its allowed set.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidTheme indicates an unsupported theme.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidModel indicates an invalid model identifier.
	ErrInvalidModel = errors.New("invalid model")
	// ErrAssistantUnavailable indicates no AI collaborator is configured.
	ErrAssistantUnavailable = errors.New("assistant not configured")
)
