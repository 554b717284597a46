package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

// StreamEvent is sent to SSE clients.
type StreamEvent struct {
	Seq       uint64                 `json:"seq"`
	Type      string                 `json:"type"`
	Document  *schema.DocumentEvent  `json:"document,omitempty"`
	Selection *schema.SelectionEvent `json:"selection,omitempty"`
	Edit      *schema.EditEvent      `json:"edit,omitempty"`
	Chat      *schema.ChatEvent      `json:"chat,omitempty"`
	Settings  *schema.SettingsEvent  `json:"settings,omitempty"`
	Snapshot  *SnapshotPayload       `json:"snapshot,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// SnapshotPayload seeds client state on connect.
type SnapshotPayload struct {
	Workspace schema.WorkspaceSnapshot `json:"workspace"`
	Messages  []schema.ChatMessage     `json:"messages"`
}

const (
	streamEventSnapshot  = "snapshot"
	streamEventDocument  = "document"
	streamEventSelection = "selection"
	streamEventEdit      = "edit"
	streamEventChat      = "chat"
	streamEventSettings  = "settings"
)

// Hub broadcasts workspace events to stream subscribers and keeps a bounded
// history for Last-Event-ID replay.
type Hub struct {
	mu          sync.Mutex
	seq         uint64
	history     []StreamEvent
	subs        map[chan StreamEvent]struct{}
	historySize int
	logger      pslog.Logger
}

// NewHub constructs a hub with the given history size.
func NewHub(historySize int, logger pslog.Logger) *Hub {
	if historySize <= 0 {
		historySize = 256
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Hub{
		subs:        make(map[chan StreamEvent]struct{}),
		historySize: historySize,
		logger:      logger,
	}
}

// OnDocumentEvent implements core.EventSink.
func (h *Hub) OnDocumentEvent(event schema.DocumentEvent) {
	h.logger.Trace("hub document event", "type", event.Type, "document", event.Document.ID, "active", event.Active)
	h.publish(StreamEvent{Type: streamEventDocument, Document: &event})
}

// OnSelectionEvent implements core.EventSink.
func (h *Hub) OnSelectionEvent(event schema.SelectionEvent) {
	h.logger.Trace("hub selection event", "cleared", event.Selection == nil)
	h.publish(StreamEvent{Type: streamEventSelection, Selection: &event})
}

// OnEditEvent implements core.EventSink.
func (h *Hub) OnEditEvent(event schema.EditEvent) {
	h.logger.Trace("hub edit event", "document", event.DocumentID, "action", event.Action, "status", event.Status)
	h.publish(StreamEvent{Type: streamEventEdit, Edit: &event})
}

// OnChatEvent implements core.EventSink.
func (h *Hub) OnChatEvent(event schema.ChatEvent) {
	h.logger.Trace("hub chat event", "sender", event.Message.Sender, "busy", event.Busy)
	h.publish(StreamEvent{Type: streamEventChat, Chat: &event})
}

// OnSettingsEvent implements core.EventSink.
func (h *Hub) OnSettingsEvent(event schema.SettingsEvent) {
	h.logger.Trace("hub settings event", "theme", event.Theme)
	h.publish(StreamEvent{Type: streamEventSettings, Settings: &event})
}

// Subscribe registers a subscriber. The returned seq is the last sequence
// number published before the subscription; events on the channel follow it.
func (h *Hub) Subscribe() (<-chan StreamEvent, func(), uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan StreamEvent, 256)
	h.subs[ch] = struct{}{}
	seq := h.seq
	h.logger.Info("hub subscribe", "subs", len(h.subs), "seq", seq)
	var once sync.Once
	unsub := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			remaining := len(h.subs)
			h.mu.Unlock()
			h.logger.Info("hub unsubscribe", "subs", remaining)
		})
	}
	return ch, unsub, seq
}

// Replay returns retained events with after < seq <= upTo.
func (h *Hub) Replay(after, upTo uint64) []StreamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := make([]StreamEvent, 0, len(h.history))
	for _, event := range h.history {
		if event.Seq > after && event.Seq <= upTo {
			events = append(events, event)
		}
	}
	h.logger.Debug("hub replay", "after", after, "count", len(events))
	return events
}

func (h *Hub) publish(event StreamEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.mu.Lock()
	h.seq++
	event.Seq = h.seq
	h.history = append(h.history, event)
	if len(h.history) > h.historySize {
		h.history = h.history[len(h.history)-h.historySize:]
	}
	// Send under the lock so unsubscribe cannot close a channel mid-send.
	dropped := 0
	for sub := range h.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	h.mu.Unlock()

	if dropped > 0 {
		h.logger.Warn("hub event dropped", "type", event.Type, "dropped", dropped)
	}
}
