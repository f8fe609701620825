package lokalize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey indicates a comment-suffixed key was used where a regular
	// key is required.
	ErrInvalidKey = errors.New("lokalize: invalid key")
	// ErrDuplicateKey indicates an insert or rename target already exists.
	ErrDuplicateKey = errors.New("lokalize: duplicate key")
	// ErrResourceUnavailable indicates a backing resource could not be read or
	// written.
	ErrResourceUnavailable = errors.New("lokalize: resource unavailable")
	// ErrInvalidLocaleCode indicates a malformed language/country/variant tuple.
	ErrInvalidLocaleCode = errors.New("lokalize: invalid locale code")
	// ErrUnknownNode indicates a NodeID that does not address a live node.
	ErrUnknownNode = errors.New("lokalize: unknown node")
	// ErrNotEligible indicates a node cannot take the master role.
	ErrNotEligible = errors.New("lokalize: node not eligible as master")
	// ErrLocaleExists indicates a locale with the same display name is
	// already part of the tree.
	ErrLocaleExists = errors.New("lokalize: locale already exists")
)

// ResourceError captures the operation and resource path of a failed load or
// save alongside the originating error.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lokalize: %s %s: %v", e.Op, describePath(e.Path), e.Err)
}

func (e *ResourceError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrResourceUnavailable, e.Err}
}

// NewResourceError wraps err so that it matches ErrResourceUnavailable.
func NewResourceError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var resErr *ResourceError
	if errors.As(err, &resErr) {
		if resErr.Op == "" {
			resErr.Op = op
		}
		if resErr.Path == "" {
			resErr.Path = path
		}
		return resErr
	}
	return &ResourceError{Op: op, Path: path, Err: err}
}

func describePath(path string) string {
	if path == "" {
		return "path=<empty>"
	}
	return fmt.Sprintf("path=%q", path)
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Locale string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lokalize: %s evaluator %s locale=%s: %v", e.Engine, describeExpression(e.Expr), e.Locale, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "lokalize:") {
		return err
	}
	return fmt.Errorf("lokalize: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, locale string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Locale == "" {
			evalErr.Locale = locale
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Locale: locale,
		Err:    err,
	}
}
