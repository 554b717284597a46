package logx

import (
	"context"

	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	documentKey contextKey = iota
	actionKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	return pslog.Ctx(ctx)
}

// WithDocument annotates the logger with the document id if present.
func WithDocument(ctx context.Context, id schema.DocumentID) pslog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	log := pslog.Ctx(ctx)
	if id != "" {
		if current, ok := ctx.Value(documentKey).(schema.DocumentID); ok && current == id {
			return log
		}
		log = log.With("document", id)
	}
	return log
}

// WithDocumentAction annotates the logger with document and action.
func WithDocumentAction(ctx context.Context, id schema.DocumentID, action schema.Action) pslog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	log := WithDocument(ctx, id)
	if action != "" {
		if current, ok := ctx.Value(actionKey).(schema.Action); ok && current == action {
			return log
		}
		log = log.With("action", action)
	}
	return log
}

// WithSelection annotates the logger with selection offsets.
func WithSelection(log pslog.Logger, sel *schema.Selection) pslog.Logger {
	if sel == nil {
		return log
	}
	return log.With("sel_start", sel.Start, "sel_end", sel.End)
}

// ContextWithDocument stores the document marker on the context for log de-duplication.
func ContextWithDocument(ctx context.Context, id schema.DocumentID) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, documentKey, id)
}

// ContextWithAction stores the action marker on the context for log de-duplication.
func ContextWithAction(ctx context.Context, action schema.Action) context.Context {
	if ctx == nil || action == "" {
		return ctx
	}
	return context.WithValue(ctx, actionKey, action)
}

// ContextWithDocumentLogger attaches the logger and document marker to the context.
func ContextWithDocumentLogger(ctx context.Context, log pslog.Logger, id schema.DocumentID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithDocument(ctx, id)
}

// ContextWithDocumentActionLogger attaches the logger and document/action markers to the context.
func ContextWithDocumentActionLogger(ctx context.Context, log pslog.Logger, id schema.DocumentID, action schema.Action) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithAction(ContextWithDocument(ctx, id), action)
}
