package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/codexpad/internal/persist"
	"pkt.systems/codexpad/schema"
)

func TestSettingsDefaultsAndPartialUpdate(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, ServiceDeps{EventSink: sink})
	ctx := context.Background()

	got, err := svc.GetSettings(ctx, schema.GetSettingsRequest{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Settings != schema.DefaultSettings() || got.Theme != schema.DefaultTheme {
		t.Fatalf("unexpected defaults %+v", got)
	}

	mono := schema.FontFamilyMono
	resp, err := svc.UpdateSettings(ctx, schema.UpdateSettingsRequest{Patch: schema.SettingsPatch{FontFamily: &mono}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Settings.FontFamily != schema.FontFamilyMono || resp.Settings.FontSize != schema.FontSizeBase {
		t.Fatalf("unexpected settings %+v", resp.Settings)
	}
	if len(sink.settings) != 1 {
		t.Fatalf("expected one settings event, got %d", len(sink.settings))
	}

	bad := schema.FontSize("xl")
	if _, err := svc.UpdateSettings(ctx, schema.UpdateSettingsRequest{Patch: schema.SettingsPatch{FontSize: &bad}}); !errors.Is(err, schema.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	got, _ = svc.GetSettings(ctx, schema.GetSettingsRequest{})
	if got.Settings.FontFamily != schema.FontFamilyMono || got.Settings.FontSize != schema.FontSizeBase {
		t.Fatalf("expected rejected patch to leave settings, got %+v", got.Settings)
	}
}

func TestSettingsPersistAcrossServices(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	first, err := NewService(schema.ServiceConfig{StateDir: dir}, ServiceDeps{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	lg := schema.FontSizeLarge
	wrap := false
	if _, err := first.UpdateSettings(ctx, schema.UpdateSettingsRequest{Patch: schema.SettingsPatch{FontSize: &lg, WordWrap: &wrap}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := first.SetTheme(ctx, schema.SetThemeRequest{Theme: "dark"}); err != nil {
		t.Fatalf("theme: %v", err)
	}

	second, err := NewService(schema.ServiceConfig{StateDir: dir}, ServiceDeps{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	got, err := second.GetSettings(ctx, schema.GetSettingsRequest{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Settings.FontSize != schema.FontSizeLarge || got.Settings.WordWrap || got.Theme != "dark" {
		t.Fatalf("expected persisted preferences, got %+v", got)
	}
	ws, _ := second.GetWorkspace(ctx, schema.GetWorkspaceRequest{})
	if len(ws.Workspace.Documents) != 0 {
		t.Fatalf("expected documents to stay process local")
	}
}

func TestSetThemeValidates(t *testing.T) {
	svc := newTestService(t, ServiceDeps{})
	if _, err := svc.SetTheme(context.Background(), schema.SetThemeRequest{Theme: "sepia"}); !errors.Is(err, schema.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

type memoryStore struct {
	saved   map[string]persist.Preferences
	saveErr error
}

func (m *memoryStore) Load(profile string) (persist.Preferences, bool, error) {
	prefs, ok := m.saved[profile]
	return prefs, ok, nil
}

func (m *memoryStore) Save(profile string, prefs persist.Preferences) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[profile] = prefs
	return nil
}

func TestInjectedSettingsStore(t *testing.T) {
	store := &memoryStore{saved: map[string]persist.Preferences{
		schema.DefaultProfile: {Settings: schema.Settings{FontSize: schema.FontSizeSmall, FontFamily: schema.FontFamilyMono}, Theme: "dark"},
	}}
	svc := newTestService(t, ServiceDeps{SettingsStore: store})
	ctx := context.Background()

	got, _ := svc.GetSettings(ctx, schema.GetSettingsRequest{})
	if got.Settings.FontFamily != schema.FontFamilyMono || got.Theme != "dark" {
		t.Fatalf("expected stored preferences loaded, got %+v", got)
	}

	store.saveErr = errors.New("disk full")
	large := schema.FontSizeLarge
	resp, err := svc.UpdateSettings(ctx, schema.UpdateSettingsRequest{Patch: schema.SettingsPatch{FontSize: &large}})
	if err != nil {
		t.Fatalf("expected save failure to be logged only, got %v", err)
	}
	if resp.Settings.FontSize != schema.FontSizeLarge {
		t.Fatalf("expected in-memory update, got %+v", resp.Settings)
	}
}
