package core

import (
	"fmt"

	"pkt.systems/codexpad/schema"
)

// document is a single in-memory document.
type document struct {
	ID      schema.DocumentID
	Name    schema.DocumentName
	Content string
	// pending is set while an AI transformation is in flight; content is read-only meanwhile.
	pending bool
}

// Snapshot returns a transport-friendly view of the document.
func (d *document) Snapshot(open, active bool) schema.DocumentSnapshot {
	status := schema.EditIdle
	if d.pending {
		status = schema.EditPending
	}
	stats := countText(d.Content)
	return schema.DocumentSnapshot{
		ID:         d.ID,
		Name:       d.Name,
		Content:    d.Content,
		Open:       open,
		Active:     active,
		EditStatus: status,
		Words:      stats.Words,
		Characters: stats.Characters,
	}
}

// workspace is the document store state machine. It is not safe for
// concurrent use; the service serializes access.
type workspace struct {
	docs   map[schema.DocumentID]*document
	order  []schema.DocumentID
	open   []schema.DocumentID
	active schema.DocumentID
	// selection is the single captured selection, nil when invalidated.
	selection *schema.Selection
	// activations counts document switches; captures carry the value they were taken under.
	activations uint64
}

func newWorkspace() *workspace {
	return &workspace{docs: make(map[schema.DocumentID]*document)}
}

func defaultDocumentName(count int) schema.DocumentName {
	return schema.DocumentName(fmt.Sprintf("Untitled Document %d", count+1))
}

func (w *workspace) create(id schema.DocumentID) *document {
	doc := &document{ID: id, Name: defaultDocumentName(len(w.docs))}
	w.docs[id] = doc
	w.order = append(w.order, id)
	w.open = append(w.open, id)
	w.activate(id)
	return doc
}

func (w *workspace) get(id schema.DocumentID) *document {
	return w.docs[id]
}

// selectDocument opens the document if needed and activates it.
func (w *workspace) selectDocument(id schema.DocumentID) bool {
	if _, ok := w.docs[id]; !ok {
		return false
	}
	if !w.isOpen(id) {
		w.open = append(w.open, id)
	}
	w.activate(id)
	return true
}

// updateContent only targets the active document and never a pending one.
func (w *workspace) updateContent(id schema.DocumentID, content string) bool {
	doc := w.docs[id]
	if doc == nil || id != w.active || doc.pending {
		return false
	}
	if doc.Content == content {
		return true
	}
	doc.Content = content
	w.invalidateSelectionFor(id)
	return true
}

// splice replaces [start,end) of a document's content regardless of activity.
func (w *workspace) splice(id schema.DocumentID, start, end int, replacement string) bool {
	doc := w.docs[id]
	if doc == nil {
		return false
	}
	doc.Content = spliceRunes(doc.Content, start, end, replacement)
	w.invalidateSelectionFor(id)
	return true
}

func (w *workspace) appendContent(id schema.DocumentID, text string) bool {
	doc := w.docs[id]
	if doc == nil || doc.pending {
		return false
	}
	doc.Content += text
	w.invalidateSelectionFor(id)
	return true
}

func (w *workspace) rename(id schema.DocumentID, name string) bool {
	doc := w.docs[id]
	if doc == nil {
		return false
	}
	normalized, ok := schema.NormalizeDocumentName(name)
	if !ok {
		return false
	}
	doc.Name = normalized
	return true
}

func (w *workspace) remove(id schema.DocumentID) bool {
	if _, ok := w.docs[id]; !ok {
		return false
	}
	delete(w.docs, id)
	w.order = removeDocumentID(w.order, id)
	w.closeTab(id)
	w.invalidateSelectionFor(id)
	return true
}

// closeTab removes the document from the open set only.
func (w *workspace) closeTab(id schema.DocumentID) bool {
	if !w.isOpen(id) {
		return false
	}
	w.open = removeDocumentID(w.open, id)
	if w.active == id {
		next := schema.DocumentID("")
		if len(w.open) > 0 {
			next = w.open[0]
		}
		w.activate(next)
	}
	return true
}

func (w *workspace) activate(id schema.DocumentID) {
	if w.active == id {
		return
	}
	w.active = id
	w.activations++
	w.selection = nil
}

func (w *workspace) invalidateSelectionFor(id schema.DocumentID) {
	if w.selection != nil && w.selection.DocumentID == id {
		w.selection = nil
	}
}

func (w *workspace) isOpen(id schema.DocumentID) bool {
	for _, current := range w.open {
		if current == id {
			return true
		}
	}
	return false
}

func (w *workspace) activeDocument() *document {
	if w.active == "" {
		return nil
	}
	return w.docs[w.active]
}

func (w *workspace) documentSnapshot(doc *document) schema.DocumentSnapshot {
	return doc.Snapshot(w.isOpen(doc.ID), doc.ID == w.active)
}

func (w *workspace) openIDs() []schema.DocumentID {
	return append([]schema.DocumentID(nil), w.open...)
}

func (w *workspace) currentSelection() *schema.Selection {
	if w.selection == nil {
		return nil
	}
	sel := *w.selection
	return &sel
}

func (w *workspace) documentSnapshots() []schema.DocumentSnapshot {
	out := make([]schema.DocumentSnapshot, 0, len(w.order))
	for _, id := range w.order {
		if doc := w.docs[id]; doc != nil {
			out = append(out, w.documentSnapshot(doc))
		}
	}
	return out
}

func (w *workspace) event(kind schema.DocumentEventType, doc *document) schema.DocumentEvent {
	return schema.DocumentEvent{
		Type:     kind,
		Document: doc.Snapshot(w.isOpen(doc.ID), doc.ID == w.active),
		Open:     w.openIDs(),
		Active:   w.active,
	}
}

// checkInvariants reports the first broken workspace invariant.
func (w *workspace) checkInvariants() error {
	seen := make(map[schema.DocumentID]struct{}, len(w.open))
	for _, id := range w.open {
		if _, ok := w.docs[id]; !ok {
			return fmt.Errorf("open id %s is not a document", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("open id %s is duplicated", id)
		}
		seen[id] = struct{}{}
	}
	if w.active != "" {
		if _, ok := seen[w.active]; !ok {
			return fmt.Errorf("active id %s is not open", w.active)
		}
	}
	if len(w.order) != len(w.docs) {
		return fmt.Errorf("document order has %d ids for %d documents", len(w.order), len(w.docs))
	}
	if w.selection != nil {
		doc := w.docs[w.selection.DocumentID]
		if doc == nil {
			return fmt.Errorf("selection references missing document %s", w.selection.DocumentID)
		}
		if err := ValidateSelection(*w.selection, doc.Content); err != nil {
			return fmt.Errorf("selection: %w", err)
		}
	}
	return nil
}

func removeDocumentID(ids []schema.DocumentID, id schema.DocumentID) []schema.DocumentID {
	for i, current := range ids {
		if current == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
