package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"pkt.systems/codexpad/schema"
	"pkt.systems/pslog"
)

func TestWithSelectionAddsOffsets(t *testing.T) {
	capture := &logCapture{}
	logger := newCaptureLogger(capture)
	log := WithSelection(logger, &schema.Selection{Start: 2, End: 7})
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["sel_start"] != float64(2) || entry["sel_end"] != float64(7) {
		t.Fatalf("expected selection fields, got %+v", entry)
	}
}

func TestWithSelectionNil(t *testing.T) {
	capture := &logCapture{}
	logger := newCaptureLogger(capture)
	WithSelection(logger, nil).Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["sel_start"]; ok {
		t.Fatalf("did not expect selection fields for nil selection")
	}
}

func TestWithDocumentActionAddsFields(t *testing.T) {
	capture := &logCapture{}
	ctx := pslog.ContextWithLogger(context.Background(), newCaptureLogger(capture))
	log := WithDocumentAction(ctx, "doc1", schema.ActionFix)
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["document"] != "doc1" {
		t.Fatalf("expected document field, got %+v", entry)
	}
	if entry["action"] != "fix" {
		t.Fatalf("expected action field, got %+v", entry)
	}
}

func TestWithDocumentSkipsDuplicateMarker(t *testing.T) {
	capture := &logCapture{}
	base := newCaptureLogger(capture)
	ctx := ContextWithDocumentLogger(context.Background(), base.With("document", "doc1"), "doc1")
	WithDocument(ctx, "doc1").Info("hello")

	line := capture.buf.String()
	if strings.Count(line, "\"document\"") != 1 {
		t.Fatalf("expected a single document field, got %s", line)
	}
}

func newCaptureLogger(capture *logCapture) pslog.Logger {
	return pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
