package persist

import (
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/codexpad/schema"
)

func TestStoreLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, ok, err := store.Load("default")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing preferences")
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	prefs := Preferences{
		Settings: schema.Settings{
			FontSize:   schema.FontSizeLarge,
			FontFamily: schema.FontFamilySerif,
			WordWrap:   false,
			AutoSave:   true,
		},
		Theme: "dark",
	}
	if err := store.Save("default", prefs); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load("default")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected preferences to exist")
	}
	if got != prefs {
		t.Fatalf("preferences mismatch:\nwant: %+v\ngot:  %+v", prefs, got)
	}
	info, err := os.Stat(filepath.Join(dir, "default.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestStoreLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "default.json"), []byte("{not-json"), 0o600); err != nil {
		t.Fatalf("write bad json: %v", err)
	}
	if _, _, err := store.Load("default"); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestStoreSanitizesProfile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save("../evil profile", Preferences{Settings: schema.DefaultSettings()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".._evil_profile.json")); err != nil {
		t.Fatalf("expected sanitized file name: %v", err)
	}
}

func TestNewStoreRequiresDir(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
