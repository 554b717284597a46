package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pkt.systems/codexpad/schema"
)

func TestApplyActionImproveScenario(t *testing.T) {
	sink := &recordingSink{}
	var gotAction schema.Action
	var gotText string
	svc := newTestService(t, ServiceDeps{
		EventSink: sink,
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			gotAction, gotText = action, text
			return "Greetings", nil
		}),
	})
	doc := createDocument(t, svc, "Hello world")
	captureSelection(t, svc, doc.ID, 0, 5)

	resp, err := svc.ApplyAction(context.Background(), schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionImprove})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if gotAction != schema.ActionImprove || gotText != "Hello" {
		t.Fatalf("unexpected collaborator call %q %q", gotAction, gotText)
	}
	if !resp.Applied || resp.Document.Content != "Greetings world" {
		t.Fatalf("expected spliced content, got %+v", resp)
	}
	if resp.Document.EditStatus != schema.EditIdle {
		t.Fatalf("expected idle after apply, got %q", resp.Document.EditStatus)
	}
	if resp.Diff.Inserted == 0 || resp.Diff.Deleted == 0 {
		t.Fatalf("expected a diff summary, got %+v", resp.Diff)
	}
	statuses := sink.editStatuses()
	if len(statuses) != 2 || statuses[0] != schema.EditPending || statuses[1] != schema.EditApplied {
		t.Fatalf("expected pending then applied, got %v", statuses)
	}
	ws, _ := svc.GetWorkspace(context.Background(), schema.GetWorkspaceRequest{})
	if ws.Workspace.Selection != nil {
		t.Fatalf("expected selection consumed by the edit")
	}
}

func TestApplyActionSpliceKeepsSurroundingContent(t *testing.T) {
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			return "[" + text + "]", nil
		}),
	})
	content := "one two three\nfour five"
	doc := createDocument(t, svc, content)
	sel := captureSelection(t, svc, doc.ID, 4, 13)

	resp, err := svc.ApplyAction(context.Background(), schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionFix, Selection: sel})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "one [two three]\nfour five"
	if resp.Document.Content != want {
		t.Fatalf("expected %q, got %q", want, resp.Document.Content)
	}
}

func TestApplyActionFailureLeavesContent(t *testing.T) {
	sink := &recordingSink{}
	boom := errors.New("model unavailable")
	svc := newTestService(t, ServiceDeps{
		EventSink: sink,
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			return "", boom
		}),
	})
	doc := createDocument(t, svc, "Hello world")
	captureSelection(t, svc, doc.ID, 6, 11)

	resp, err := svc.ApplyAction(context.Background(), schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionTranslate})
	if !errors.Is(err, schema.ErrTransformFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transform failure, got %v", err)
	}
	if resp.Applied || resp.Document.Content != "Hello world" {
		t.Fatalf("expected content unchanged, got %+v", resp)
	}
	statuses := sink.editStatuses()
	if len(statuses) != 2 || statuses[1] != schema.EditFailed {
		t.Fatalf("expected failed status event, got %v", statuses)
	}
	if sink.edits[1].Error == "" {
		t.Fatalf("expected failure detail on event")
	}
	transcript, _ := svc.GetTranscript(context.Background(), schema.GetTranscriptRequest{})
	if len(transcript.Messages) != 1 {
		t.Fatalf("expected edit failure to stay out of the chat transcript")
	}
	got, _ := svc.GetDocument(context.Background(), schema.GetDocumentRequest{DocumentID: doc.ID})
	if got.Document.EditStatus != schema.EditIdle {
		t.Fatalf("expected idle after failure, got %q", got.Document.EditStatus)
	}
}

func TestApplyActionRejectsStaleSelection(t *testing.T) {
	calls := 0
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			calls++
			return "X", nil
		}),
	})
	ctx := context.Background()
	doc := createDocument(t, svc, "Hello world")
	sel := captureSelection(t, svc, doc.ID, 0, 5)
	if _, err := svc.UpdateContent(ctx, schema.UpdateContentRequest{DocumentID: doc.ID, Content: "Oh, Hello world"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	resp, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionImprove, Selection: sel})
	if !errors.Is(err, schema.ErrStaleSelection) {
		t.Fatalf("expected ErrStaleSelection, got %v", err)
	}
	if resp.Applied || calls != 0 {
		t.Fatalf("expected no collaborator call, got %d", calls)
	}
	got, _ := svc.GetDocument(ctx, schema.GetDocumentRequest{DocumentID: doc.ID})
	if got.Document.Content != "Oh, Hello world" {
		t.Fatalf("expected content untouched, got %q", got.Document.Content)
	}

	if _, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionImprove}); !errors.Is(err, schema.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection after invalidation, got %v", err)
	}
}

func TestApplyActionRejectsSelectionFromOtherDocument(t *testing.T) {
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			return "X", nil
		}),
	})
	a := createDocument(t, svc, "same text")
	sel := captureSelection(t, svc, a.ID, 0, 4)
	b := createDocument(t, svc, "same text")

	_, err := svc.ApplyAction(context.Background(), schema.ApplyActionRequest{DocumentID: b.ID, Action: schema.ActionFix, Selection: sel})
	if !errors.Is(err, schema.ErrStaleSelection) {
		t.Fatalf("expected ErrStaleSelection, got %v", err)
	}
}

func TestApplyActionKeepsInvalidBytesOutsideSelection(t *testing.T) {
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			return "X", nil
		}),
	})
	doc := createDocument(t, svc, "ab\xffcd Hello")
	captureSelection(t, svc, doc.ID, 6, 11)

	resp, err := svc.ApplyAction(context.Background(), schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionFix})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.Document.Content != "ab\xffcd X" {
		t.Fatalf("expected prefix bytes untouched, got %q", resp.Document.Content)
	}
}

func TestApplyActionRejectsSelectionAfterSwitch(t *testing.T) {
	called := false
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			called = true
			return "Bye", nil
		}),
	})
	ctx := context.Background()
	a := createDocument(t, svc, "Hello world")
	sel := captureSelection(t, svc, a.ID, 0, 5)
	createDocument(t, svc, "")

	_, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: a.ID, Action: schema.ActionImprove, Selection: sel})
	if !errors.Is(err, schema.ErrStaleSelection) {
		t.Fatalf("expected ErrStaleSelection after switching away, got %v", err)
	}
	if called {
		t.Fatalf("expected no transformation for a discarded capture")
	}
	got, err := svc.GetDocument(ctx, schema.GetDocumentRequest{DocumentID: a.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Document.Content != "Hello world" || got.Document.EditStatus != schema.EditIdle {
		t.Fatalf("expected untouched idle document, got %+v", got.Document)
	}

	if _, err := svc.SelectDocument(ctx, schema.SelectDocumentRequest{DocumentID: a.ID}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: a.ID, Action: schema.ActionImprove, Selection: sel}); !errors.Is(err, schema.ErrStaleSelection) {
		t.Fatalf("expected a capture from before the switch to stay discarded, got %v", err)
	}
}

func TestApplyActionValidatesInput(t *testing.T) {
	svc := newTestService(t, ServiceDeps{})
	doc := createDocument(t, svc, "Hello")
	ctx := context.Background()
	if _, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: "shout"}); !errors.Is(err, schema.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionFix}); !errors.Is(err, schema.ErrAssistantUnavailable) {
		t.Fatalf("expected ErrAssistantUnavailable, got %v", err)
	}
}

func TestApplyActionSingleFlightPerDocument(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			close(started)
			<-release
			return "Bye", nil
		}),
	})
	ctx := context.Background()
	doc := createDocument(t, svc, "Hello world")
	sel := captureSelection(t, svc, doc.ID, 0, 5)

	var wg sync.WaitGroup
	var firstErr error
	var first schema.ApplyActionResponse
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionImprove, Selection: sel})
	}()
	<-started

	if _, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionFix, Selection: sel}); !errors.Is(err, schema.ErrEditPending) {
		t.Fatalf("expected ErrEditPending, got %v", err)
	}
	update, err := svc.UpdateContent(ctx, schema.UpdateContentRequest{DocumentID: doc.ID, Content: "typing"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if update.Applied || update.Document.EditStatus != schema.EditPending {
		t.Fatalf("expected read-only document while pending, got %+v", update)
	}
	if _, err := svc.CaptureSelection(ctx, schema.CaptureSelectionRequest{DocumentID: doc.ID, Start: 0, End: 3}); !errors.Is(err, schema.ErrEditPending) {
		t.Fatalf("expected capture rejected while pending, got %v", err)
	}
	other := createDocument(t, svc, "other")
	if other.Content != "other" {
		t.Fatalf("expected other documents to stay editable")
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first apply: %v", firstErr)
	}
	if first.Document.Content != "Bye world" {
		t.Fatalf("expected first edit applied, got %q", first.Document.Content)
	}
}

func TestApplyActionDiscardedWhenDocumentDeleted(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			close(started)
			<-release
			return "Bye", nil
		}),
	})
	ctx := context.Background()
	doc := createDocument(t, svc, "Hello world")
	sel := captureSelection(t, svc, doc.ID, 0, 5)

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionImprove, Selection: sel})
		errCh <- err
	}()
	<-started
	if _, err := svc.DeleteDocument(ctx, schema.DeleteDocumentRequest{DocumentID: doc.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	close(release)
	if err := <-errCh; !errors.Is(err, schema.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestApplyActionTimesOut(t *testing.T) {
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
	})
	svc.cfg.EditTimeout = 20 * time.Millisecond
	doc := createDocument(t, svc, "Hello world")
	captureSelection(t, svc, doc.ID, 0, 5)

	resp, err := svc.ApplyAction(context.Background(), schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionSummarize})
	if !errors.Is(err, schema.ErrTransformFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout failure, got %v", err)
	}
	if resp.Document.Content != "Hello world" || resp.Document.EditStatus != schema.EditIdle {
		t.Fatalf("expected unchanged idle document, got %+v", resp.Document)
	}
}

func TestApplyActionIgnoresCallerCancellation(t *testing.T) {
	svc := newTestService(t, ServiceDeps{
		Transformer: transformFunc(func(ctx context.Context, action schema.Action, text string) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "Hi", nil
		}),
	})
	doc := createDocument(t, svc, "Hello world")
	captureSelection(t, svc, doc.ID, 0, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := svc.ApplyAction(ctx, schema.ApplyActionRequest{DocumentID: doc.ID, Action: schema.ActionImprove})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.Document.Content != "Hi world" {
		t.Fatalf("expected dispatched edit to complete, got %q", resp.Document.Content)
	}
}
