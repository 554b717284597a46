package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"pkt.systems/codexpad/schema"
)

type exportRecord struct {
	ID      schema.DocumentID   `json:"id"`
	Name    schema.DocumentName `json:"name"`
	Content string              `json:"content"`
}

// ExportDocument renders a document in the requested format.
func ExportDocument(id schema.DocumentID, name schema.DocumentName, content string, format schema.ExportFormat) (schema.Export, error) {
	format, err := schema.NormalizeExportFormat(string(format))
	if err != nil {
		return schema.Export{}, err
	}
	out := schema.Export{Filename: exportFilename(string(name), format)}
	switch format {
	case schema.ExportText:
		out.Data = []byte(content)
		out.MimeType = "text/plain"
	case schema.ExportMarkdown:
		out.Data = []byte(content)
		out.MimeType = "text/markdown"
	case schema.ExportJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exportRecord{ID: id, Name: name, Content: content}); err != nil {
			return schema.Export{}, err
		}
		out.Data = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
		out.MimeType = "application/json"
	}
	return out, nil
}

// exportFilename replaces each run of whitespace with a single underscore.
func exportFilename(name string, format schema.ExportFormat) string {
	var b strings.Builder
	inSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(string(format))
	return b.String()
}
