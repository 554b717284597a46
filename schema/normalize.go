package schema

import (
	"strings"
	"unicode"
)

// NormalizeModelID validates and normalizes a model identifier.
// Allowed characters: A-Z, a-z, 0-9, '.', '_', '-', '/'.
func NormalizeModelID(model string) (ModelID, error) {
	trimmed := strings.TrimSpace(model)
	if trimmed == "" {
		return "", ErrInvalidModel
	}
	for _, r := range trimmed {
		if r == '.' || r == '_' || r == '-' || r == '/' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return "", ErrInvalidModel
	}
	return ModelID(trimmed), nil
}

// NormalizeAction validates an edit action name.
func NormalizeAction(value string) (Action, error) {
	trimmed := Action(strings.ToLower(strings.TrimSpace(value)))
	for _, action := range Actions() {
		if trimmed == action {
			return action, nil
		}
	}
	return "", ErrInvalidAction
}

// NormalizeExportFormat validates an export format, accepting a leading dot.
func NormalizeExportFormat(value string) (ExportFormat, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), ".")
	switch ExportFormat(trimmed) {
	case ExportText:
		return ExportText, nil
	case ExportMarkdown:
		return ExportMarkdown, nil
	case ExportJSON:
		return ExportJSON, nil
	default:
		return "", ErrInvalidFormat
	}
}

// NormalizeDocumentName trims a proposed name. The boolean is false when
// nothing remains.
func NormalizeDocumentName(name string) (DocumentName, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	return DocumentName(trimmed), true
}
