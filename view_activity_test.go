package lokalize

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-lokalize/pkg/activity"
)

func TestWithActivityHooksDropsNil(t *testing.T) {
	capture := &activity.CaptureHook{}
	hooks := activity.Hooks{nil, capture}
	view := NewView(NewTree("app"), WithActivityHooks(hooks))
	hooks[1] = nil

	if !view.ActivityEnabled() {
		t.Fatalf("expected activity enabled")
	}
	if NewView(NewTree("app"), WithActivityHooks(activity.Hooks{nil})).ActivityEnabled() {
		t.Fatalf("expected nil-only hooks to disable activity")
	}
}

func TestViewEmitsKeyEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	view, _, _ := greetingView(t, WithActivityHooks(activity.Hooks{capture}))

	view.InsertKey("title")
	view.Entry(view.Row("title"))
	view.UpdateActive("Titel", "page title")
	view.RenameKey("title", "heading")
	view.RemoveKey("greeting")
	view.RestoreKey("greeting")
	view.RestoreKey("greeting")

	want := []string{
		activity.VerbKeyCreated,
		activity.VerbKeyUpdated,
		activity.VerbKeyRenamed,
		activity.VerbKeyDeleted,
		activity.VerbKeyRestored,
	}
	got := capture.Verbs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected verbs %v", got)
	}
	updated := capture.Events[1]
	if updated.ObjectID != "de:title" || updated.Metadata["new_value"] != "Titel" || updated.Channel != activity.DefaultChannel {
		t.Fatalf("unexpected update event %+v", updated)
	}
	if capture.Events[2].Metadata["new_key"] != "heading" {
		t.Fatalf("unexpected rename event %+v", capture.Events[2])
	}
}

func TestViewUpdateActiveReportsOnlyWrittenValues(t *testing.T) {
	capture := &activity.CaptureHook{}
	view, _, _ := greetingView(t, WithActivityHooks(activity.Hooks{capture}))

	view.Entry(view.Row("greeting"))
	if !view.UpdateActive("", "salutation") {
		t.Fatalf("expected comment update")
	}
	if !view.UpdateActive("hi", "note") {
		t.Fatalf("expected comment update with unchanged text")
	}
	if len(capture.Events) != 2 {
		t.Fatalf("expected two events, got %d", len(capture.Events))
	}
	for i, event := range capture.Events {
		if _, ok := event.Metadata["new_value"]; ok {
			t.Fatalf("event %d must not report a text change: %+v", i, event.Metadata)
		}
	}
	if capture.Events[0].Metadata["comment"] != "salutation" || capture.Events[1].Metadata["comment"] != "note" {
		t.Fatalf("expected comments in metadata, got %+v", capture.Events)
	}

	capture.Reset()
	view.UpdateActive("servus", "")
	meta := capture.Events[0].Metadata
	if meta["new_value"] != "servus" || meta["old_value"] != "hi" {
		t.Fatalf("unexpected text event %+v", meta)
	}
	if _, ok := meta["comment"]; ok {
		t.Fatalf("unchanged comment must not be reported")
	}
}

func TestViewLogsHookFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	failing := activity.HookFunc(func(context.Context, activity.Event) error { return errors.New("sink down") })
	view, _, _ := greetingView(t, WithActivityHooks(activity.Hooks{failing}), WithLogger(logger))

	if !view.RemoveKey("greeting") {
		t.Fatalf("hook failures must not fail the mutation")
	}
	if !strings.Contains(buf.String(), "sink down") {
		t.Fatalf("expected hook failure logged, got %q", buf.String())
	}
}

func TestSlogEvaluatorLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	view := filterView(t, WithEvaluatorLogger(SlogEvaluatorLogger(logger)))

	if _, err := view.Filter(`here`); err != nil {
		t.Fatalf("filter: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "filter evaluated") || !strings.Contains(out, "engine=expr") || !strings.Contains(out, "matched=2") {
		t.Fatalf("unexpected log output %q", out)
	}
}
