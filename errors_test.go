package lokalize

import (
	"errors"
	"io/fs"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "status == 'OnlyHere'", "de_DE", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "status == 'OnlyHere'" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Locale != "de_DE" {
		t.Fatalf("expected locale metadata, got %q", evalErr.Locale)
	}
	if !errors.Is(evalErr.Err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "modified", "fr", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "modified" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Locale != "fr" {
		t.Fatalf("locale should be filled, got %q", existing.Locale)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	prefixed := errors.New("lokalize: already wrapped")
	if got := wrapEvaluatorError("expr", prefixed); got != prefixed {
		t.Fatalf("expected prefixed error to pass through, got %v", got)
	}
	if wrapEvaluatorError("expr", nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	wrapped := wrapEvaluatorError("cel", errors.New("bad"))
	if wrapped.Error() != "lokalize: cel evaluator: bad" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}

func TestResourceErrorMatchesSentinel(t *testing.T) {
	err := NewResourceError("load", "/tmp/app_de.properties", fs.ErrNotExist)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected underlying error to unwrap")
	}
	var resErr *ResourceError
	if !errors.As(err, &resErr) || resErr.Op != "load" {
		t.Fatalf("expected ResourceError with op load, got %#v", err)
	}
	if NewResourceError("load", "x", nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}
