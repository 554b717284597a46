package schema

// DocumentEventType describes document lifecycle changes.
type DocumentEventType string

const (
	// DocumentEventCreated indicates a new document was created and activated.
	DocumentEventCreated DocumentEventType = "created"
	// DocumentEventSelected indicates the active document changed.
	DocumentEventSelected DocumentEventType = "selected"
	// DocumentEventUpdated indicates document content changed.
	DocumentEventUpdated DocumentEventType = "updated"
	// DocumentEventRenamed indicates the document name changed.
	DocumentEventRenamed DocumentEventType = "renamed"
	// DocumentEventDeleted indicates the document was removed.
	DocumentEventDeleted DocumentEventType = "deleted"
	// DocumentEventClosed indicates the document tab was closed.
	DocumentEventClosed DocumentEventType = "closed"
)

// DocumentEvent notifies listeners about document and tab changes.
type DocumentEvent struct {
	Type     DocumentEventType `json:"type"`
	Document DocumentSnapshot  `json:"document"`
	Open     []DocumentID      `json:"open"`
	Active   DocumentID        `json:"active,omitempty"`
}

// SelectionEvent reports the current selection; nil means invalidated.
type SelectionEvent struct {
	Selection *Selection `json:"selection"`
}

// EditEvent reports edit pipeline transitions for a document.
type EditEvent struct {
	DocumentID DocumentID `json:"documentId"`
	Action     Action     `json:"action"`
	Status     EditStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	Diff       *EditDiff  `json:"diff,omitempty"`
}

// ChatEvent reports a transcript append.
type ChatEvent struct {
	Message ChatMessage `json:"message"`
	Busy    bool        `json:"busy"`
}

// SettingsEvent reports the current settings and theme.
type SettingsEvent struct {
	Settings Settings  `json:"settings"`
	Theme    ThemeName `json:"theme"`
}
