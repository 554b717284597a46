package schema

import "time"

// DocumentSnapshot is a read-only view of a document for transports.
type DocumentSnapshot struct {
	ID         DocumentID   `json:"id"`
	Name       DocumentName `json:"name"`
	Content    string       `json:"content"`
	Open       bool         `json:"open"`
	Active     bool         `json:"active"`
	EditStatus EditStatus   `json:"editStatus"`
	Words      int          `json:"words"`
	Characters int          `json:"characters"`
}

// Anchor is the advisory screen position of the selection action menu.
type Anchor struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Row    int     `json:"row"`
	Column int     `json:"column"`
}

// Selection is a captured text range. Offsets count Unicode code points and
// are only meaningful against the content identified by Checksum and Length.
type Selection struct {
	DocumentID DocumentID `json:"documentId"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Text       string     `json:"text"`
	Checksum   uint64     `json:"checksum,string"`
	Length     int        `json:"length"`
	Anchor     Anchor     `json:"anchor"`
	// Activation identifies the document switch the capture was taken under.
	Activation uint64 `json:"activation,string"`
}

// Layout describes the editing surface the anchor is measured against.
// Columns is the visible width in monospace cells; zero disables wrapping.
type Layout struct {
	Columns     int     `json:"columns"`
	TabWidth    int     `json:"tabWidth"`
	WordWrap    bool    `json:"wordWrap"`
	CellWidth   float64 `json:"cellWidth"`
	LineHeight  float64 `json:"lineHeight"`
	PaddingTop  float64 `json:"paddingTop"`
	PaddingLeft float64 `json:"paddingLeft"`
	ScrollTop   float64 `json:"scrollTop"`
	MenuOffset  float64 `json:"menuOffset"`
}

// ChatMessage is one transcript entry.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// EditDiff summarizes how a transformation changed the selected text.
type EditDiff struct {
	Inserted  int `json:"inserted"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

// WorkspaceSnapshot is the full observable workspace state.
type WorkspaceSnapshot struct {
	Documents []DocumentSnapshot `json:"documents"`
	Open      []DocumentID       `json:"open"`
	Active    DocumentID         `json:"active,omitempty"`
	Selection *Selection         `json:"selection,omitempty"`
	Settings  Settings           `json:"settings"`
	Theme     ThemeName          `json:"theme"`
	ChatBusy  bool               `json:"chatBusy"`
}

// Export is a serialized document ready for download.
type Export struct {
	Data     []byte
	MimeType string
	Filename string
}
