package core

import "pkt.systems/codexpad/schema"

// EventSink receives workspace events from the core service.
type EventSink interface {
	OnDocumentEvent(event schema.DocumentEvent)
	OnSelectionEvent(event schema.SelectionEvent)
	OnEditEvent(event schema.EditEvent)
	OnChatEvent(event schema.ChatEvent)
	OnSettingsEvent(event schema.SettingsEvent)
}
