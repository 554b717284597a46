package schema

import (
	"errors"
	"testing"
)

func TestNormalizeAction(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Action
		valid bool
	}{
		{"improve", "improve", ActionImprove, true},
		{"upper", "FIX", ActionFix, true},
		{"padded", "  summarize ", ActionSummarize, true},
		{"translate", "translate", ActionTranslate, true},
		{"empty", "", "", false},
		{"unknown", "rewrite", "", false},
	}

	for _, tc := range cases {
		got, err := NormalizeAction(tc.input)
		if tc.valid && err != nil {
			t.Fatalf("case %q expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, ErrInvalidAction) {
			t.Fatalf("case %q expected ErrInvalidAction, got %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("case %q expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestNormalizeExportFormat(t *testing.T) {
	for _, input := range []string{"txt", ".md", " JSON "} {
		if _, err := NormalizeExportFormat(input); err != nil {
			t.Fatalf("expected %q to be valid: %v", input, err)
		}
	}
	if _, err := NormalizeExportFormat("pdf"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestNormalizeDocumentName(t *testing.T) {
	if _, ok := NormalizeDocumentName("   "); ok {
		t.Fatalf("expected blank name to be rejected")
	}
	name, ok := NormalizeDocumentName("  Notes  ")
	if !ok || name != "Notes" {
		t.Fatalf("expected trimmed name, got %q ok=%v", name, ok)
	}
}

func TestApplySettingsPatchValidates(t *testing.T) {
	base := DefaultSettings()
	bad := FontSize("huge")
	got, err := ApplySettingsPatch(base, SettingsPatch{FontSize: &bad})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if got != base {
		t.Fatalf("expected settings unchanged on error, got %+v", got)
	}

	size := FontSizeLarge
	family := FontFamilyMono
	wrap := false
	got, err = ApplySettingsPatch(base, SettingsPatch{FontSize: &size, FontFamily: &family, WordWrap: &wrap})
	if err != nil {
		t.Fatalf("apply patch: %v", err)
	}
	want := Settings{FontSize: FontSizeLarge, FontFamily: FontFamilyMono, WordWrap: false, AutoSave: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if base != DefaultSettings() {
		t.Fatalf("expected base settings to stay untouched")
	}
}

func TestApplySettingsPatchRejectsMixedPatch(t *testing.T) {
	base := DefaultSettings()
	family := FontFamily("comic")
	wrap := false
	got, err := ApplySettingsPatch(base, SettingsPatch{FontFamily: &family, WordWrap: &wrap})
	if err == nil {
		t.Fatalf("expected error for invalid family")
	}
	if got.WordWrap != base.WordWrap {
		t.Fatalf("expected no partial application")
	}
}

func TestNormalizeServiceConfigDefaults(t *testing.T) {
	cfg, err := NormalizeServiceConfig(ServiceConfig{DisablePersistence: true})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Greeting != DefaultGreeting {
		t.Fatalf("expected default greeting, got %q", cfg.Greeting)
	}
	if cfg.EditTimeout != DefaultEditTimeout || cfg.ChatTimeout != DefaultChatTimeout {
		t.Fatalf("expected default timeouts, got %v %v", cfg.EditTimeout, cfg.ChatTimeout)
	}
	if cfg.DefaultTheme != DefaultTheme {
		t.Fatalf("expected default theme, got %q", cfg.DefaultTheme)
	}
	if cfg.StateDir != "" {
		t.Fatalf("expected no state dir when persistence is disabled, got %q", cfg.StateDir)
	}
	if _, err := NormalizeServiceConfig(ServiceConfig{DisablePersistence: true, DefaultTheme: "neon"}); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}
