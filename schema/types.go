package schema

// DocumentID identifies a document for its whole lifetime.
type DocumentID string

// DocumentName is the user-facing name of a document.
type DocumentName string

// MessageID identifies a chat transcript entry.
type MessageID string

// ModelID identifies an LLM model.
type ModelID string

// ThemeName identifies a UI theme.
type ThemeName string

// Sender identifies who authored a chat message.
type Sender string

const (
	// SenderUser marks messages typed by the user.
	SenderUser Sender = "user"
	// SenderAssistant marks replies from the assistant.
	SenderAssistant Sender = "assistant"
	// SenderSystemError marks failed turns surfaced in the transcript.
	SenderSystemError Sender = "system-error"
)

// Action is an AI transformation applied to a selection.
type Action string

const (
	ActionImprove   Action = "improve"
	ActionSummarize Action = "summarize"
	ActionFix       Action = "fix"
	ActionTranslate Action = "translate"
)

// Actions returns the supported edit actions in menu order.
func Actions() []Action {
	return []Action{ActionImprove, ActionSummarize, ActionFix, ActionTranslate}
}

// ExportFormat selects an export encoding.
type ExportFormat string

const (
	ExportText     ExportFormat = "txt"
	ExportMarkdown ExportFormat = "md"
	ExportJSON     ExportFormat = "json"
)

// EditStatus is the state of the per-document edit pipeline.
type EditStatus string

const (
	// EditIdle means no transformation is in flight.
	EditIdle EditStatus = "idle"
	// EditPending means a transformation is in flight and the document is read-only.
	EditPending EditStatus = "pending"
	// EditApplied is reported once a transformation has been spliced in.
	EditApplied EditStatus = "applied"
	// EditFailed is reported when the collaborator failed and nothing changed.
	EditFailed EditStatus = "failed"
)
