package core

import (
	"context"
	"fmt"

	"pkt.systems/codexpad/internal/logx"
	"pkt.systems/codexpad/schema"
)

// ApplyAction runs an AI transformation over a captured selection and splices
// the result back at the captured offsets. Only one transformation may be in
// flight per document; while it runs the document is read-only.
func (s *service) ApplyAction(ctx context.Context, req schema.ApplyActionRequest) (schema.ApplyActionResponse, error) {
	action, err := schema.NormalizeAction(string(req.Action))
	if err != nil {
		return schema.ApplyActionResponse{}, err
	}
	log := logx.WithDocumentAction(ctx, req.DocumentID, action)
	if s.transformer == nil {
		return schema.ApplyActionResponse{}, schema.ErrAssistantUnavailable
	}

	s.mu.Lock()
	doc := s.ws.get(req.DocumentID)
	if doc == nil {
		s.mu.Unlock()
		return schema.ApplyActionResponse{}, schema.ErrDocumentNotFound
	}
	if doc.pending {
		s.mu.Unlock()
		log.Info("edit apply rejected", "reason", "pending")
		return schema.ApplyActionResponse{}, schema.ErrEditPending
	}
	sel := req.Selection
	if sel == nil {
		sel = s.ws.currentSelection()
	}
	if sel == nil {
		s.mu.Unlock()
		return schema.ApplyActionResponse{}, schema.ErrNoSelection
	}
	captured := *sel
	if captured.DocumentID != doc.ID {
		s.mu.Unlock()
		log.Info("edit apply rejected", "reason", "selection from another document", "selection_document", captured.DocumentID)
		return schema.ApplyActionResponse{}, schema.ErrStaleSelection
	}
	// A capture never survives a document switch, even when the caller holds on to it.
	if doc.ID != s.ws.active || captured.Activation != s.ws.activations {
		s.mu.Unlock()
		log.Info("edit apply rejected", "reason", "document not active")
		return schema.ApplyActionResponse{}, schema.ErrStaleSelection
	}
	if err := ValidateSelection(captured, doc.Content); err != nil {
		s.mu.Unlock()
		logx.WithSelection(log, &captured).Info("edit apply rejected", "reason", "content changed since capture")
		return schema.ApplyActionResponse{}, err
	}
	doc.pending = true
	hadSelection := s.ws.selection != nil
	s.ws.selection = nil
	s.mu.Unlock()

	if hadSelection {
		s.emitSelectionEvent(nil)
	}
	s.emitEditEvent(schema.EditEvent{DocumentID: doc.ID, Action: action, Status: schema.EditPending})
	log = logx.WithSelection(log, &captured)
	log.Info("edit apply start", "characters", len([]rune(captured.Text)))

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.EditTimeout)
	replacement, callErr := s.transformer.Transform(callCtx, action, captured.Text)
	cancel()

	s.mu.Lock()
	current := s.ws.get(captured.DocumentID)
	if current == nil {
		s.mu.Unlock()
		log.Info("edit apply discarded", "reason", "document deleted")
		s.emitEditEvent(schema.EditEvent{DocumentID: captured.DocumentID, Action: action, Status: schema.EditFailed, Error: schema.ErrDocumentNotFound.Error()})
		return schema.ApplyActionResponse{}, schema.ErrDocumentNotFound
	}
	current.pending = false
	if callErr != nil {
		snapshot := s.ws.documentSnapshot(current)
		s.mu.Unlock()
		log.Warn("edit apply failed", "err", callErr)
		s.emitEditEvent(schema.EditEvent{DocumentID: current.ID, Action: action, Status: schema.EditFailed, Error: callErr.Error()})
		return schema.ApplyActionResponse{Document: snapshot}, fmt.Errorf("%w: %w", schema.ErrTransformFailed, callErr)
	}
	if err := ValidateSelection(captured, current.Content); err != nil {
		snapshot := s.ws.documentSnapshot(current)
		s.mu.Unlock()
		log.Warn("edit apply discarded", "reason", "content changed while pending")
		s.emitEditEvent(schema.EditEvent{DocumentID: current.ID, Action: action, Status: schema.EditFailed, Error: err.Error()})
		return schema.ApplyActionResponse{Document: snapshot}, err
	}
	s.ws.splice(current.ID, captured.Start, captured.End, replacement)
	snapshot := s.ws.documentSnapshot(current)
	event := s.ws.event(schema.DocumentEventUpdated, current)
	s.mu.Unlock()

	diff := summarizeEdit(captured.Text, replacement)
	s.emitDocumentEvent(event)
	s.emitEditEvent(schema.EditEvent{DocumentID: current.ID, Action: action, Status: schema.EditApplied, Diff: &diff})
	log.Info("edit applied", "inserted", diff.Inserted, "deleted", diff.Deleted)
	return schema.ApplyActionResponse{Document: snapshot, Applied: true, Diff: diff}, nil
}
