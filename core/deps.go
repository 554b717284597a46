package core

import (
	"context"
	"time"

	"pkt.systems/codexpad/internal/persist"
	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

// Transformer rewrites a text fragment according to an edit action.
type Transformer interface {
	Transform(ctx context.Context, action schema.Action, text string) (string, error)
}

// Conversation answers chat prompts. Implementations keep multi-turn
// continuity across calls for the lifetime of the workspace.
type Conversation interface {
	Converse(ctx context.Context, prompt string) (string, error)
}

// SettingsStore keeps editor settings and theme across restarts, per profile.
type SettingsStore interface {
	Load(profile string) (persist.Preferences, bool, error)
	Save(profile string, prefs persist.Preferences) error
}

// ServiceDeps captures optional dependencies for the workspace service.
type ServiceDeps struct {
	Transformer  Transformer
	Conversation Conversation
	EventSink    EventSink
	Logger       pslog.Logger
	Clock        func() time.Time

	// SettingsStore overrides the file store opened from the state dir.
	SettingsStore SettingsStore
}
