package schema

import (
	"fmt"
	"strings"
)

// FontSize is the editor font size step.
type FontSize string

const (
	FontSizeSmall FontSize = "sm"
	FontSizeBase  FontSize = "base"
	FontSizeLarge FontSize = "lg"
)

// FontFamily is the editor font family.
type FontFamily string

const (
	FontFamilySans  FontFamily = "sans"
	FontFamilySerif FontFamily = "serif"
	FontFamilyMono  FontFamily = "mono"
)

// Settings is the editor preference record. Values are replaced, never mutated in place.
type Settings struct {
	FontSize   FontSize   `json:"fontSize"`
	FontFamily FontFamily `json:"fontFamily"`
	WordWrap   bool       `json:"wordWrap"`
	AutoSave   bool       `json:"autoSave"`
}

// SettingsPatch carries a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	FontSize   *FontSize   `json:"fontSize,omitempty"`
	FontFamily *FontFamily `json:"fontFamily,omitempty"`
	WordWrap   *bool       `json:"wordWrap,omitempty"`
	AutoSave   *bool       `json:"autoSave,omitempty"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		FontSize:   FontSizeBase,
		FontFamily: FontFamilySans,
		WordWrap:   true,
		AutoSave:   true,
	}
}

// NormalizeFontSize validates a font size value.
func NormalizeFontSize(value string) (FontSize, error) {
	switch FontSize(strings.ToLower(strings.TrimSpace(value))) {
	case FontSizeSmall:
		return FontSizeSmall, nil
	case FontSizeBase:
		return FontSizeBase, nil
	case FontSizeLarge:
		return FontSizeLarge, nil
	}
	return "", fmt.Errorf("%w: font size %q", ErrInvalidSettings, value)
}

// NormalizeFontFamily validates a font family value.
func NormalizeFontFamily(value string) (FontFamily, error) {
	switch FontFamily(strings.ToLower(strings.TrimSpace(value))) {
	case FontFamilySans:
		return FontFamilySans, nil
	case FontFamilySerif:
		return FontFamilySerif, nil
	case FontFamilyMono:
		return FontFamilyMono, nil
	}
	return "", fmt.Errorf("%w: font family %q", ErrInvalidSettings, value)
}

// NormalizeSettings fills empty fields from defaults and validates the rest.
func NormalizeSettings(s Settings) (Settings, error) {
	defaults := DefaultSettings()
	if s.FontSize == "" {
		s.FontSize = defaults.FontSize
	}
	if s.FontFamily == "" {
		s.FontFamily = defaults.FontFamily
	}
	size, err := NormalizeFontSize(string(s.FontSize))
	if err != nil {
		return Settings{}, err
	}
	family, err := NormalizeFontFamily(string(s.FontFamily))
	if err != nil {
		return Settings{}, err
	}
	s.FontSize = size
	s.FontFamily = family
	return s, nil
}

// ApplySettingsPatch returns a copy of s with the patch applied.
// Every present field is validated; on error s is returned untouched.
func ApplySettingsPatch(s Settings, patch SettingsPatch) (Settings, error) {
	next := s
	if patch.FontSize != nil {
		size, err := NormalizeFontSize(string(*patch.FontSize))
		if err != nil {
			return s, err
		}
		next.FontSize = size
	}
	if patch.FontFamily != nil {
		family, err := NormalizeFontFamily(string(*patch.FontFamily))
		if err != nil {
			return s, err
		}
		next.FontFamily = family
	}
	if patch.WordWrap != nil {
		next.WordWrap = *patch.WordWrap
	}
	if patch.AutoSave != nil {
		next.AutoSave = *patch.AutoSave
	}
	return next, nil
}

// Empty reports whether the patch carries no fields.
func (p SettingsPatch) Empty() bool {
	return p.FontSize == nil && p.FontFamily == nil && p.WordWrap == nil && p.AutoSave == nil
}
