package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/codexpad/schema"
)

func TestExportDocumentFormats(t *testing.T) {
	out, err := ExportDocument("d1", "My Doc", "hi", schema.ExportJSON)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	want := "{\n  \"id\": \"d1\",\n  \"name\": \"My Doc\",\n  \"content\": \"hi\"\n}"
	if string(out.Data) != want {
		t.Fatalf("expected %q, got %q", want, string(out.Data))
	}
	if out.MimeType != "application/json" || out.Filename != "My_Doc.json" {
		t.Fatalf("unexpected json export %+v", out)
	}

	out, err = ExportDocument("d1", "My Doc", "hi", schema.ExportText)
	if err != nil {
		t.Fatalf("export txt: %v", err)
	}
	if string(out.Data) != "hi" || out.MimeType != "text/plain" || out.Filename != "My_Doc.txt" {
		t.Fatalf("unexpected txt export %+v", out)
	}

	out, err = ExportDocument("d1", "My Doc", "# hi", schema.ExportMarkdown)
	if err != nil {
		t.Fatalf("export md: %v", err)
	}
	if string(out.Data) != "# hi" || out.MimeType != "text/markdown" || out.Filename != "My_Doc.md" {
		t.Fatalf("unexpected md export %+v", out)
	}
}

func TestExportJSONDoesNotEscapeMarkup(t *testing.T) {
	out, err := ExportDocument("d1", "a<b>", "x & y", schema.ExportJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "{\n  \"id\": \"d1\",\n  \"name\": \"a<b>\",\n  \"content\": \"x & y\"\n}"
	if string(out.Data) != want {
		t.Fatalf("expected %q, got %q", want, string(out.Data))
	}
}

func TestExportFilenameCollapsesWhitespaceRuns(t *testing.T) {
	cases := map[string]string{
		"My Doc":             "My_Doc.txt",
		"  spaced \t\n out ": "_spaced_out_.txt",
		"plain":              "plain.txt",
	}
	for name, want := range cases {
		if got := exportFilename(name, schema.ExportText); got != want {
			t.Fatalf("name %q: expected %q, got %q", name, want, got)
		}
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, err := ExportDocument("d1", "n", "c", "pdf"); !errors.Is(err, schema.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestServiceExportDocument(t *testing.T) {
	svc := newTestService(t, ServiceDeps{})
	ctx := context.Background()
	doc := createDocument(t, svc, "body")
	resp, err := svc.ExportDocument(ctx, schema.ExportDocumentRequest{DocumentID: doc.ID, Format: schema.ExportText})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(resp.Export.Data) != "body" || resp.Export.Filename != "Untitled_Document_1.txt" {
		t.Fatalf("unexpected export %+v", resp.Export)
	}
	if _, err := svc.ExportDocument(ctx, schema.ExportDocumentRequest{DocumentID: "missing", Format: schema.ExportText}); !errors.Is(err, schema.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
