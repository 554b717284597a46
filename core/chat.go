package core

import (
	"context"
	"strings"
	"time"

	"pkt.systems/codexpad/internal/logx"
	"pkt.systems/codexpad/schema"
)

const greetingMessageID schema.MessageID = "greeting"

// transcript is the append-only chat history of the workspace.
type transcript struct {
	messages []schema.ChatMessage
	pending  bool
}

func newTranscript(greeting string, at time.Time) *transcript {
	return &transcript{
		messages: []schema.ChatMessage{{
			ID:        greetingMessageID,
			Sender:    schema.SenderAssistant,
			Text:      greeting,
			CreatedAt: at,
		}},
	}
}

func (t *transcript) append(msg schema.ChatMessage) {
	t.messages = append(t.messages, msg)
}

func (t *transcript) snapshot() []schema.ChatMessage {
	return append([]schema.ChatMessage(nil), t.messages...)
}

// ComposePrompt builds the outgoing chat prompt. When includeDocument is set
// and a document is active, its content and the query are sent as separate
// sections of one instruction.
func ComposePrompt(text string, includeDocument bool, document *string) string {
	if !includeDocument || document == nil {
		return text
	}
	var b strings.Builder
	b.WriteString("Given the following document context, please answer the user's query.\n\n---\n\nDOCUMENT CONTEXT:\n")
	b.WriteString(*document)
	b.WriteString("\n\n---\n\nUSER QUERY:\n")
	b.WriteString(text)
	return b.String()
}

// SendChat appends the user message right away, asks the conversation
// collaborator and appends either the reply or a system-error entry.
func (s *service) SendChat(ctx context.Context, req schema.SendChatRequest) (schema.SendChatResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return schema.SendChatResponse{}, schema.ErrEmptyMessage
	}
	if s.conversation == nil {
		return schema.SendChatResponse{}, schema.ErrAssistantUnavailable
	}
	log := logx.Ctx(ctx)

	s.mu.Lock()
	if s.chat.pending {
		s.mu.Unlock()
		log.Info("chat turn rejected", "reason", "busy")
		return schema.SendChatResponse{}, schema.ErrChatBusy
	}
	userMsg := schema.ChatMessage{
		ID:        newMessageID("user"),
		Sender:    schema.SenderUser,
		Text:      req.Text,
		CreatedAt: s.now(),
	}
	s.chat.append(userMsg)
	s.chat.pending = true
	var docContent *string
	if doc := s.ws.activeDocument(); doc != nil {
		content := doc.Content
		docContent = &content
		log = log.With("document", doc.ID)
	}
	prompt := ComposePrompt(req.Text, req.IncludeDocument, docContent)
	s.mu.Unlock()

	s.emitChatEvent(schema.ChatEvent{Message: userMsg, Busy: true})
	log.Info("chat turn start", "include_document", req.IncludeDocument && docContent != nil, "prompt_chars", len(prompt))

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ChatTimeout)
	answer, err := s.conversation.Converse(callCtx, prompt)
	cancel()

	reply := schema.ChatMessage{
		ID:     newMessageID("ai"),
		Sender: schema.SenderAssistant,
		Text:   answer,
	}
	if err != nil {
		log.Warn("chat turn failed", "err", err)
		reply = schema.ChatMessage{
			ID:     newMessageID("error"),
			Sender: schema.SenderSystemError,
			Text:   schema.ChatErrorText,
		}
	}

	s.mu.Lock()
	reply.CreatedAt = s.now()
	s.chat.append(reply)
	s.chat.pending = false
	s.mu.Unlock()

	s.emitChatEvent(schema.ChatEvent{Message: reply, Busy: false})
	if err == nil {
		log.Info("chat turn done", "reply_chars", len(answer))
	}
	return schema.SendChatResponse{User: userMsg, Reply: reply}, nil
}

func (s *service) GetTranscript(ctx context.Context, req schema.GetTranscriptRequest) (schema.GetTranscriptResponse, error) {
	_ = ctx
	_ = req
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.GetTranscriptResponse{Messages: s.chat.snapshot(), Busy: s.chat.pending}, nil
}

// InsertChatText appends text on a new line at the end of the active document.
func (s *service) InsertChatText(ctx context.Context, req schema.InsertChatTextRequest) (schema.InsertChatTextResponse, error) {
	s.mu.Lock()
	doc := s.ws.activeDocument()
	if doc == nil {
		s.mu.Unlock()
		return schema.InsertChatTextResponse{}, schema.ErrNoActiveDocument
	}
	log := logx.WithDocument(ctx, doc.ID)
	if doc.pending {
		s.mu.Unlock()
		log.Info("chat insert rejected", "reason", "edit pending")
		return schema.InsertChatTextResponse{}, schema.ErrEditPending
	}
	hadSelection := s.ws.selection != nil
	s.ws.appendContent(doc.ID, "\n"+req.Text)
	snapshot := s.ws.documentSnapshot(doc)
	event := s.ws.event(schema.DocumentEventUpdated, doc)
	cleared := hadSelection && s.ws.selection == nil
	s.mu.Unlock()

	s.emitDocumentEvent(event)
	if cleared {
		s.emitSelectionEvent(nil)
	}
	log.Info("chat text inserted", "characters", len([]rune(req.Text)))
	return schema.InsertChatTextResponse{Document: snapshot}, nil
}
