package codexpad

import (
	"pkt.systems/codexpad/core"
	"pkt.systems/codexpad/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnDocumentEvent(event schema.DocumentEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnDocumentEvent(event)
	}
}

func (f eventFanout) OnSelectionEvent(event schema.SelectionEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnSelectionEvent(event)
	}
}

func (f eventFanout) OnEditEvent(event schema.EditEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnEditEvent(event)
	}
}

func (f eventFanout) OnChatEvent(event schema.ChatEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnChatEvent(event)
	}
}

func (f eventFanout) OnSettingsEvent(event schema.SettingsEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnSettingsEvent(event)
	}
}
